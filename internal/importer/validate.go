package importer

import (
	"fmt"

	"github.com/alexanderramin/gantry/internal/datecalc"
	"github.com/alexanderramin/gantry/internal/domain"
)

// InspectDocument lists the problems the normalizer will repair when doc is
// loaded. None of them prevent loading; the result is meant for reporting.
func InspectDocument(doc *RawDocument) []error {
	var errs []error

	if doc.AnchorDate == "" {
		errs = append(errs, fmt.Errorf("anchor_date is missing (today will be used)"))
	} else if _, ok := datecalc.ParseDate(doc.AnchorDate); !ok {
		errs = append(errs, fmt.Errorf("anchor_date: invalid date %q (today will be used)", doc.AnchorDate))
	}
	if doc.WeekendMode != "" && doc.WeekendMode != string(domain.WeekendInclude) && doc.WeekendMode != string(domain.WeekendExclude) {
		errs = append(errs, fmt.Errorf("weekend_mode: invalid value %q (exclude will be used)", doc.WeekendMode))
	}

	groupStages := make(map[string]string)
	for _, st := range domain.Stages {
		groupStages[st.RootID()] = string(st)
	}
	errs = append(errs, inspectGroups(doc.Groups, groupStages)...)
	errs = append(errs, inspectRows(doc.Rows, groupStages)...)
	return errs
}

func inspectGroups(groups []RawGroup, groupStages map[string]string) []error {
	var errs []error
	for i, g := range groups {
		prefix := fmt.Sprintf("groups[%d]", i)
		if _, isRoot := domain.StageForRootID(g.ID); isRoot {
			continue
		}
		if g.ID == "" {
			errs = append(errs, fmt.Errorf("%s.id is missing", prefix))
		} else if _, dup := groupStages[g.ID]; dup {
			errs = append(errs, fmt.Errorf("%s.id: duplicate id %q", prefix, g.ID))
		} else {
			groupStages[g.ID] = g.Stage
		}
		if g.Stage != "" && !domain.Stage(g.Stage).IsValid() {
			errs = append(errs, fmt.Errorf("%s.stage: invalid value %q", prefix, g.Stage))
		}
	}
	for i, g := range groups {
		if g.ParentGroupID == nil || *g.ParentGroupID == "" {
			continue
		}
		stage, ok := groupStages[*g.ParentGroupID]
		switch {
		case !ok:
			errs = append(errs, fmt.Errorf("groups[%d].parent_group_id: ref %q not found", i, *g.ParentGroupID))
		case stage != g.Stage:
			errs = append(errs, fmt.Errorf("groups[%d].parent_group_id: ref %q belongs to stage %q", i, *g.ParentGroupID, stage))
		}
	}
	return errs
}

func inspectRows(rows []RawRow, groupStages map[string]string) []error {
	var errs []error
	seen := make(map[string]bool)
	for i, r := range rows {
		prefix := fmt.Sprintf("rows[%d]", i)
		if r.ID == "" {
			errs = append(errs, fmt.Errorf("%s.id is missing", prefix))
		} else if seen[r.ID] || groupStages[r.ID] != "" {
			errs = append(errs, fmt.Errorf("%s.id: duplicate id %q", prefix, r.ID))
		}
		seen[r.ID] = true

		if r.Kind != "" && r.Kind != string(domain.RowTask) && r.Kind != string(domain.RowEvent) {
			errs = append(errs, fmt.Errorf("%s.kind: invalid value %q", prefix, r.Kind))
		}
		if r.ParentGroupID == nil || *r.ParentGroupID == "" {
			errs = append(errs, fmt.Errorf("%s.parent_group_id is missing", prefix))
		} else if _, ok := groupStages[*r.ParentGroupID]; !ok {
			errs = append(errs, fmt.Errorf("%s.parent_group_id: ref %q not found", prefix, *r.ParentGroupID))
		}
		errs = append(errs, inspectOptionalDate(prefix+".start_date", r.StartDate)...)
		errs = append(errs, inspectOptionalDate(prefix+".end_date", r.EndDate)...)
	}
	return errs
}

func inspectOptionalDate(field, value string) []error {
	if value == "" {
		return nil
	}
	if _, ok := datecalc.ParseDate(value); !ok {
		return []error{fmt.Errorf("%s: invalid date format %q (expected YYYY-MM-DD)", field, value)}
	}
	return nil
}
