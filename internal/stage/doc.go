// Package stage defines the contracts between the concat pipeline and its
// three engines, along with the values that flow between them.
//
// FramePlan, Theme and the frame pattern string are produced by one engine and
// consumed by the next; the pipeline passes them through without looking
// inside. Engines also report readiness through HealthCheck so the CLI's
// doctor command can surface missing tools before a run starts.
package stage
