/*
Package observability provides tools for monitoring the Vantage resolver.

It turns build lifecycle hooks into Prometheus metrics and structured log
records, and combines several sets of hooks into one.
*/
package observability
