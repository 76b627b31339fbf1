package dashboard

import "slices"

// applyOrderOverride puts the widgets named in order first, in that order,
// followed by the rest in their existing order. Unknown IDs are skipped.
func applyOrderOverride(widgets []WidgetInstance, order []string) []WidgetInstance {
	if len(order) == 0 {
		return widgets
	}
	index := make(map[string]WidgetInstance, len(widgets))
	for _, w := range widgets {
		index[w.ID] = w
	}
	result := make([]WidgetInstance, 0, len(widgets))
	seen := make(map[string]struct{}, len(order))
	for _, id := range order {
		if _, dup := seen[id]; dup {
			continue
		}
		if w, ok := index[id]; ok {
			result = append(result, w)
			seen[id] = struct{}{}
		}
	}
	for _, w := range widgets {
		if _, ok := seen[w.ID]; !ok {
			result = append(result, w)
		}
	}
	return result
}

// insertInArea places inst at position among the widgets of its area. A nil
// or out of range position appends.
func insertInArea(instances []WidgetInstance, inst WidgetInstance, position *int) []WidgetInstance {
	if position == nil {
		return append(instances, inst)
	}
	seen := 0
	for i, existing := range instances {
		if existing.AreaCode != inst.AreaCode {
			continue
		}
		if seen == max(*position, 0) {
			return slices.Insert(instances, i, inst)
		}
		seen++
	}
	return append(instances, inst)
}

func cloneInstance(inst WidgetInstance) WidgetInstance {
	out := inst
	if inst.Configuration != nil {
		out.Configuration = make(map[string]any, len(inst.Configuration))
		for k, v := range inst.Configuration {
			out.Configuration[k] = v
		}
	}
	if inst.Metadata != nil {
		out.Metadata = make(map[string]any, len(inst.Metadata))
		for k, v := range inst.Metadata {
			out.Metadata[k] = v
		}
	}
	return out
}
