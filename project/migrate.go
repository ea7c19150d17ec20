package project

import (
	"fmt"
	"strings"
)

// CurrentVersion is the layout version written by Encode.
const CurrentVersion = 1

// migration upgrades a raw document from version From to From+1.
type migration struct {
	From  int
	Name  string
	Apply func(doc map[string]any)
}

var migrations = []migration{
	{From: 0, Name: "manufacturing steps and image lists", Apply: migrateV0},
}

// Migrate upgrades doc in place to CurrentVersion. Files without a version
// field are version 0.
func Migrate(doc map[string]any) error {
	v, err := version(doc)
	if err != nil {
		return err
	}
	if v > CurrentVersion {
		return fmt.Errorf("%w: version %d, supported up to %d", ErrProjectTooNew, v, CurrentVersion)
	}
	for _, m := range migrations {
		if m.From < v {
			continue
		}
		m.Apply(doc)
		v = m.From + 1
	}
	doc["version"] = float64(v)
	return nil
}

func version(doc map[string]any) (int, error) {
	raw, ok := doc["version"]
	if !ok || raw == nil {
		return 0, nil
	}
	n, ok := raw.(float64)
	if !ok || n < 0 || n != float64(int(n)) {
		return 0, fmt.Errorf("%w: bad version %v", ErrInvalidProject, raw)
	}
	return int(n), nil
}

// migrateV0 splits the free-text manufacturing order into steps and turns
// single image paths into image lists.
func migrateV0(doc map[string]any) {
	rm, ok := doc["report_model"].(map[string]any)
	if !ok {
		return
	}

	steps, _ := rm["manuf_order_steps"].([]any)
	if text, ok := rm["manuf_order_text"].(string); ok {
		if len(steps) == 0 && strings.TrimSpace(text) != "" {
			var out []any
			for _, ln := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
				if ln = strings.TrimSpace(ln); ln != "" {
					out = append(out, ln)
				}
			}
			rm["manuf_order_steps"] = out
		}
		delete(rm, "manuf_order_text")
	}

	results, _ := rm["results"].([]any)
	for _, r := range results {
		item, ok := r.(map[string]any)
		if !ok {
			continue
		}
		if _, has := item["images"]; !has {
			images := []any{}
			if p, ok := item["image_path"].(string); ok && p != "" {
				images = append(images, p)
			}
			item["images"] = images
		}
		delete(item, "image_path")
	}
}
