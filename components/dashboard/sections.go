package dashboard

import "github.com/google/uuid"

// generalSectionTitle names the synthesized section that collects widgets no
// section references. The repair is an invariant of loading, not a
// user-visible structure.
const generalSectionTitle = "General"

// RepairSections normalizes a dashboard's section list in place: section
// column counts are clamped to [1,4], references to unknown widgets are
// dropped, and widgets unreferenced by any section are collected into a
// synthesized trailing "General" section.
func RepairSections(d *Dashboard) {
	if d == nil {
		return
	}
	known := make(map[string]bool, len(d.Widgets))
	for _, w := range d.Widgets {
		known[w.ID] = true
	}

	referenced := make(map[string]bool, len(d.Widgets))
	for i := range d.Sections {
		section := &d.Sections[i]
		if section.Columns < 1 || section.Columns > 4 {
			section.Columns = 4
		}
		kept := section.WidgetIDs[:0]
		for _, id := range section.WidgetIDs {
			if !known[id] || referenced[id] {
				continue
			}
			referenced[id] = true
			kept = append(kept, id)
		}
		section.WidgetIDs = kept
	}

	var orphans []string
	for _, w := range d.Widgets {
		if !referenced[w.ID] {
			orphans = append(orphans, w.ID)
		}
	}
	if len(orphans) == 0 {
		return
	}
	d.Sections = append(d.Sections, DashboardSection{
		ID:        uuid.NewString(),
		Title:     generalSectionTitle,
		ShowTitle: true,
		Columns:   4,
		WidgetIDs: orphans,
	})
}

// SectionWidgets resolves a section's widget references in order.
func (d *Dashboard) SectionWidgets(section DashboardSection) []DashboardWidget {
	byID := make(map[string]DashboardWidget, len(d.Widgets))
	for _, w := range d.Widgets {
		byID[w.ID] = w
	}
	out := make([]DashboardWidget, 0, len(section.WidgetIDs))
	for _, id := range section.WidgetIDs {
		if w, ok := byID[id]; ok {
			out = append(out, w)
		}
	}
	return out
}
