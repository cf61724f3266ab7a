/*
Package phosphorus is an offline/interactive path-tracing renderer.

It implements the rendering core: a wide bounding-volume hierarchy (MBVH)
spatial index, a stream traversal kernel that intersects ray packets
against that index, a tiled work decomposition with per-thread pipeline
state and arena allocation, a material bucket-sort shading dispatch, and a
next-event-estimation path-tracing integrator.

Scene import from external container formats, the OSL-style shading
language runtime, texture baking, and CLI/file handling are treated as
external collaborators and are reachable only through the interfaces in
the adapters subpackage.

A minimal end-to-end render looks like:

	sc := scene.New()
	sc.AddMaterial(myNetwork) // material ID 0, named by myMesh's face-sets
	if _, err := sc.AddMesh(myMesh); err != nil {
		// handle GeometryError
	}
	sc.SetCamera(myCamera)
	sc.AddLight(light.NewArea(triangles, emission))
	if err := sc.Build(); err != nil {
		// handle ConfigError
	}

	settings := phosphorus.RenderSettings{
		SamplesPerPixel: 64,
		MaxPathDepth:    6,
	}
	sess, err := phosphorus.NewSession(sc, settings, mySink)
	if err != nil {
		// handle ConfigError
	}
	if err := sess.Render(context.Background()); err != nil {
		// handle Cancelled or ResourceError
	}
*/
package phosphorus
