/*
Package ports defines the driven ports (interfaces) of the Vantage resolver.

These interfaces decouple the transform cache builder from the concrete scene
tree, transform history and view configuration it reads.

# Key Interfaces

  - EntityTree: Read access to the hierarchy of entities (subtree lookup, children).
  - TransformSource: Synchronous latest-at lookup of logged transforms, used while building.
  - EntityProperties: Per-entity view configuration consulted on the way down.
  - TransformRecorder: Context-aware, fallible history backend (memory, Redis).
*/
package ports
