/*
Package vantage resolves, once per frame, where every entity of a scene tree sits
relative to a chosen reference entity.

Entities carry a rigid transform, a pinhole camera, an explicitly unknown
transform, or nothing at all. Vantage composes these into a TransformCache:
the reference-from-entity matrix of every reachable entity, plus an explanation
for every subtree that could not be placed (an unknown transform, or a second
pinhole camera on the same branch).

# Concept

The resolver walks down from the reference, composing parent-from-child
transforms, then walks up through the ancestors, inverting the transform that
links each one to the next and gathering the sibling branches it discovers.
Resolution never fails as a whole: unreachable subtrees are recorded on the
cache and skipped.

Data is read through two small ports (pkg/ports): an EntityTree and a
TransformSource answering latest-at queries. In-memory, Redis and YAML scene
adapters live under pkg/adapters.

# Usage

	scene, err := file.Load(ctx, "scene.yaml")
	if err != nil {
		log.Fatal(err)
	}

	resolver, err := vantage.NewFromScene(scene)
	if err != nil {
		log.Fatal(err)
	}

	frame, _ := scene.Timeline("frame")
	cache, err := resolver.Resolve(ctx, "/world/camera", domain.LatestAtEnd(frame))
	if err != nil {
		log.Fatal(err)
	}

	if m, ok := cache.ReferenceFromEntity("/world/robot"); ok {
		fmt.Println(m.Col(3))
	}
*/
package vantage
