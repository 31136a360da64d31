package importer

// RawDocument is the loosely-typed schedule document exchanged with the
// store and import files. Nothing in it is trusted until it passes through
// the normalizer.
type RawDocument struct {
	SchemaVersion string     `json:"schema_version,omitempty" yaml:"schema_version,omitempty"`
	WeekendMode   string     `json:"weekend_mode" yaml:"weekend_mode"`
	AnchorDate    string     `json:"anchor_date" yaml:"anchor_date" validate:"required,datetime=2006-01-02"`
	Groups        []RawGroup `json:"groups" yaml:"groups"`
	Rows          []RawRow   `json:"rows" yaml:"rows"`
	UpdatedAt     string     `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
}

// RawGroup is a group as found on the wire.
type RawGroup struct {
	ID            string  `json:"id" yaml:"id"`
	Name          string  `json:"name" yaml:"name"`
	Stage         string  `json:"stage" yaml:"stage"`
	ParentGroupID *string `json:"parent_group_id" yaml:"parent_group_id"`
	SortOrder     FlexInt `json:"sort_order" yaml:"sort_order"`
	IsSystem      bool    `json:"is_system" yaml:"is_system"`
}

// RawRow is a row as found on the wire.
type RawRow struct {
	ID            string  `json:"id" yaml:"id"`
	Kind          string  `json:"kind" yaml:"kind"`
	Name          string  `json:"name" yaml:"name"`
	Stage         string  `json:"stage" yaml:"stage"`
	ParentGroupID *string `json:"parent_group_id" yaml:"parent_group_id"`
	SortOrder     FlexInt `json:"sort_order" yaml:"sort_order"`
	DurationDays  FlexInt `json:"duration_days" yaml:"duration_days"`
	StartDate     string  `json:"start_date" yaml:"start_date"`
	EndDate       string  `json:"end_date" yaml:"end_date"`
	Note          string  `json:"note" yaml:"note"`
}
