package vantage_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/vantage"
	"github.com/aretw0/vantage/pkg/adapters/memory"
	"github.com/aretw0/vantage/pkg/domain"
	"github.com/go-gl/mathgl/mgl64"
)

// ExampleNew_memory demonstrates resolving a scene that is logged into an in-memory recorder.
func ExampleNew_memory() {
	ctx := context.Background()
	frame := domain.NewSequenceTimeline("frame")

	// 1. Log transforms.
	rec := memory.NewRecorder()
	must(rec.Log(ctx, "/world/robot", frame, 0, domain.Translation3(1, 2, 3)))
	must(rec.Log(ctx, "/world/robot", frame, 10, domain.Translation3(4, 5, 6)))
	must(rec.LogTimeless(ctx, "/world/camera", domain.Pinhole{
		FocalLength:    mgl64.Vec2{500, 500},
		PrincipalPoint: mgl64.Vec2{320, 240},
	}))
	must(rec.LogTimeless(ctx, "/world/camera/lens", domain.Pinhole{FocalLength: mgl64.Vec2{1, 1}}))

	// 2. Create the resolver over the recorded entities.
	resolver, err := vantage.New(rec.Tree(), rec)
	if err != nil {
		log.Fatal(err)
	}

	// 3. Resolve in the world frame at frame 5.
	cache, err := resolver.Resolve(ctx, "/world", domain.NewLatestAtQuery(frame, 5))
	if err != nil {
		log.Fatal(err)
	}

	robot, _ := cache.ReferenceFromEntity("/world/robot")
	fmt.Println("robot:", robot.Col(3))

	for _, u := range cache.UnreachableDescendants() {
		fmt.Printf("%s: %s\n", u.Path, u.Reason.Tag())
	}

	// Output:
	// robot: [1 2 3 1]
	// /world/camera/lens: nested_pinhole_cameras
}

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
