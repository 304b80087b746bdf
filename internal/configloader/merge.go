package configloader

import "github.com/yaklabco/bookpress/pkg/config"

// Overrides carries explicitly-set CLI flag values into Load. Pointer
// fields distinguish a flag the user set from one left at its default;
// plain Config fields cannot make that distinction once false or ""
// is a meaningful setting (check_tks defaults to true, so a --check-tks=false
// must be able to win over a config file saying true).
type Overrides struct {
	SourceDir           *string
	OutputDir           *string
	BaseName            *string
	Formats             []config.Format
	MetadataFile        *string
	ExclusionsFile      *string
	TransformationsFile *string
	PluginsDir          *string
	CSS                 []string
	PDFEngine           *string
	Language            *string
	CheckTKs            *bool
	StopOnTKs           *bool
	ProcessToC          *bool
	RunTransformations  *bool
	RunExclusions       *bool
	ReplacePlaceholders *bool
	RetainMaster        *bool
	EnableFilters       []string
	DisableFilters      []string
	LogLevel            *string
	Color               *string
	Excludes            []string
	Quiet               *bool
}

// Apply merges the overrides into cfg. Scalars and toggles overwrite the
// accumulated value when set. Repeatable flags (css, exclude, filter
// enable/disable) append rather than replace, so a config file and the
// command line can contribute together; formats replace, because a
// format list is a complete build request.
func (o *Overrides) Apply(cfg *config.Config) {
	if o == nil || cfg == nil {
		return
	}

	if o.SourceDir != nil {
		cfg.SourceDir = *o.SourceDir
	}
	if o.OutputDir != nil {
		cfg.OutputDir = *o.OutputDir
	}
	if o.BaseName != nil {
		cfg.BaseName = *o.BaseName
	}
	if len(o.Formats) > 0 {
		cfg.Formats = o.Formats
	}
	if o.MetadataFile != nil {
		cfg.MetadataFile = *o.MetadataFile
	}
	if o.ExclusionsFile != nil {
		cfg.ExclusionsFile = *o.ExclusionsFile
	}
	if o.TransformationsFile != nil {
		cfg.TransformationsFile = *o.TransformationsFile
	}
	if o.PluginsDir != nil {
		cfg.PluginsDir = *o.PluginsDir
	}
	if len(o.CSS) > 0 {
		cfg.CSS = append(cfg.CSS, o.CSS...)
	}
	if o.PDFEngine != nil {
		cfg.PDF.Engine = *o.PDFEngine
	}
	if o.Language != nil {
		cfg.Language = *o.Language
	}

	if o.CheckTKs != nil {
		cfg.CheckTKs = *o.CheckTKs
	}
	if o.StopOnTKs != nil {
		cfg.StopOnTKs = *o.StopOnTKs
	}
	if o.ProcessToC != nil {
		cfg.ProcessToC = *o.ProcessToC
	}
	if o.RunTransformations != nil {
		cfg.RunTransformations = *o.RunTransformations
	}
	if o.RunExclusions != nil {
		cfg.RunExclusions = *o.RunExclusions
	}
	if o.ReplacePlaceholders != nil {
		cfg.ReplacePlaceholders = *o.ReplacePlaceholders
	}
	if o.RetainMaster != nil {
		cfg.RetainMaster = *o.RetainMaster
	}

	if len(o.EnableFilters) > 0 {
		cfg.Filters.Enable = append(cfg.Filters.Enable, o.EnableFilters...)
	}
	if len(o.DisableFilters) > 0 {
		cfg.Filters.Disable = append(cfg.Filters.Disable, o.DisableFilters...)
	}
	if len(o.Excludes) > 0 {
		cfg.Excludes = append(cfg.Excludes, o.Excludes...)
	}

	if o.LogLevel != nil {
		cfg.LogLevel = *o.LogLevel
	}
	if o.Color != nil {
		cfg.Color = config.ColorMode(*o.Color)
	}
	if o.Quiet != nil {
		cfg.Quiet = *o.Quiet
	}
}
