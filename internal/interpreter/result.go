// Package interpreter turns raw completion output into an analysis and reply options.
//
// Every function here is pure: the same input always produces the same Result.
package interpreter

// MaxOptions is the most reply options a Result ever carries.
const MaxOptions = 3

// Option is one suggested reply, labeled by the style or persona that produced it.
type Option struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Result is the normalized analysis of one screenshot.
type Result struct {
	Analysis string   `json:"analysis"`
	Options  []Option `json:"options"`
}

// AnalysisOnly reports whether the result carries an analysis without any
// reply options, which is what a safety warning looks like.
func (r Result) AnalysisOnly() bool {
	return r.Analysis != "" && len(r.Options) == 0
}

// Empty reports whether there is nothing to render at all.
func (r Result) Empty() bool {
	return r.Analysis == "" && len(r.Options) == 0
}
