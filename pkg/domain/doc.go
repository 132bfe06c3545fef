/*
Package domain contains the core domain models of the Vantage transform resolver.

It defines the entities that describe a scene at a point in time: entity paths,
logged transforms (rigid, pinhole, unknown), timelines and the reasons a part of
the scene cannot be expressed in a reference frame. This package is kept pure and
free of I/O and persistence concerns, following Hexagonal Architecture principles.

# Key Entities

  - EntityPath: Identifies a node of the entity tree (e.g. "/world/camera").
  - Transform: The value logged at an entity, relating it to its parent.
  - LatestAtQuery: Selects the latest logged value at or before a time on a timeline.
  - UnreachableReason: Explains why an entity has no transform into the reference frame.
  - EntityProperties: Per-entity view configuration (pinhole image plane distance).
*/
package domain
