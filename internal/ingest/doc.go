// Package ingest reads learner-feedback survey exports (CSV or Excel) and
// normalizes their rows into FeedbackRecords. Column headers drift between
// export versions, so logical fields are resolved once per run through a
// configured alias table. Rows that cannot be normalized become ParseIssues
// with a reason code; they are surfaced in the final result, never silently
// dropped, and accepted plus rejected counts always equal the rows read.
package ingest
