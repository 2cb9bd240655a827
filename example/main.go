package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/meikuraledutech/linkedit"
	"github.com/meikuraledutech/linkedit/memstore"
	"github.com/meikuraledutech/linkedit/workflow"
)

const doc = `{
  "nodes": [
    {"id": 4, "type": "CheckpointLoader",
     "outputs": [{"name": "MODEL", "type": "MODEL"}, {"name": "CLIP", "type": "CLIP"}, {"name": "VAE", "type": "VAE"}]},
    {"id": 3, "type": "KSampler",
     "inputs": [{"name": "model", "type": "MODEL"}, {"name": "positive", "type": "CONDITIONING"}, {"name": "latent_image", "type": "LATENT"}, {"name": "any", "type": "*"}]}
  ],
  "links": [[1, 4, 0, 3, 0, "MODEL"]]
}`

func main() {
	ctx := context.Background()

	var store linkedit.Store = memstore.New()

	// ── Import a workflow ─────────────────────────────────────────────
	g, err := workflow.Parse("txt2img", []byte(doc))
	if err != nil {
		log.Fatalf("parse: %v", err)
	}
	if err := store.ImportGraph(ctx, g); err != nil {
		log.Fatalf("import: %v", err)
	}

	source, _ := store.GetNode(ctx, "txt2img", "4")
	target, _ := store.GetNode(ctx, "txt2img", "3")
	fmt.Println("advisory:")
	printJSON(linkedit.CheckNodeCompatibility(*source, *target))

	// ── Open a session and rewire ─────────────────────────────────────
	links, err := store.ListLinks(ctx, "txt2img")
	if err != nil {
		log.Fatalf("list links: %v", err)
	}
	sess := linkedit.OpenSession(*source, *target, links)

	clip, _ := source.Port(linkedit.SideOutput, 1)
	latent, _ := target.Port(linkedit.SideInput, 2)
	anyIn, _ := target.Port(linkedit.SideInput, 3)

	// CLIP does not fit LATENT: cancelled.
	sess, out := sess.BeginDrag(clip).Drop(&latent)
	fmt.Printf("\nclip -> latent_image: ok=%v reason=%s\n", out.OK(), out.Reason)

	// Dragging from the input end works too; the wildcard accepts CLIP.
	sess, out = sess.BeginDrag(anyIn).Drop(&clip)
	fmt.Printf("any <- clip: ok=%v\n", out.OK())

	// Tap to disconnect the persisted MODEL link.
	sess, _ = sess.RemoveLink(linkedit.PersistedID(1))

	changes := sess.Commit()
	fmt.Println("\nchanges:")
	printJSON(changes)

	applied, err := store.ApplyDiff(ctx, "txt2img", changes)
	if err != nil {
		log.Fatalf("apply: %v", err)
	}
	fmt.Println("\napplied:")
	printJSON(applied)
}

func printJSON(v any) {
	out, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(out))
}
