package importer

import (
	"github.com/alexanderramin/gantry/internal/datecalc"
	"github.com/alexanderramin/gantry/internal/domain"
)

// FromDocument converts a normalized document into its wire form.
func FromDocument(doc domain.Document) *RawDocument {
	raw := &RawDocument{
		SchemaVersion: doc.SchemaVersion,
		WeekendMode:   string(doc.WeekendMode),
		AnchorDate:    datecalc.FormatDate(doc.AnchorDate),
		Groups:        make([]RawGroup, 0, len(doc.Groups)),
		Rows:          make([]RawRow, 0, len(doc.Rows)),
		UpdatedAt:     doc.UpdatedAt,
	}
	for _, g := range doc.Groups {
		var parent *string
		if g.ParentGroupID != nil {
			parent = domain.StrPtr(*g.ParentGroupID)
		}
		raw.Groups = append(raw.Groups, RawGroup{
			ID:            g.ID,
			Name:          g.Name,
			Stage:         string(g.Stage),
			ParentGroupID: parent,
			SortOrder:     Int(g.SortOrder),
			IsSystem:      g.IsSystem,
		})
	}
	for _, r := range doc.Rows {
		raw.Rows = append(raw.Rows, RawRow{
			ID:            r.ID,
			Kind:          string(r.Kind),
			Name:          r.Name,
			Stage:         string(r.Stage),
			ParentGroupID: domain.StrPtr(r.ParentGroupID),
			SortOrder:     Int(r.SortOrder),
			DurationDays:  Int(r.DurationDays),
			StartDate:     datecalc.FormatDate(r.StartDate),
			EndDate:       datecalc.FormatDate(r.EndDate),
			Note:          r.Note,
		})
	}
	return raw
}
