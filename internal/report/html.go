package report

import (
	"bytes"
	"fmt"
	"html/template"

	"tfcli/pkg/contracts/domain"
)

// bucketOrder fixes the section order of the presentational report, most
// urgent group first
var bucketOrder = []struct {
	Bucket domain.QualityBucket
	Title  string
}{
	{domain.BucketNeedsAttention, "Needs Attention"},
	{domain.BucketSolid, "Solid"},
	{domain.BucketExemplary, "Exemplary"},
}

// RenderHTML produces the human-readable projection: trainers grouped by
// qualitative bucket, rendering exactly the numbers carried by the
// AnalysisResult with the same formatting the CSV projection uses.
func RenderHTML(result domain.AnalysisResult) ([]byte, error) {
	data := buildHTMLData(result)

	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("execute report template: %w", err)
	}
	return buf.Bytes(), nil
}

type trainerView struct {
	Trainer     string
	Count       string
	Mean        string
	Min         string
	Max         string
	EarlyMean   string
	LateMean    string
	Improvement string
	Improved    bool
	Comments    string
	Positive    string
	Histogram   []domain.HistogramBin
	Quotes      []domain.Quote
}

type bucketView struct {
	Title    string
	Bucket   string
	Trainers []trainerView
}

type htmlData struct {
	GeneratedAt string
	RunID       string
	RowsRead    int
	Accepted    int
	Rejected    int
	Overall     trainerView
	Sections    []bucketView
	Issues      []domain.ParseIssue
}

func buildHTMLData(result domain.AnalysisResult) htmlData {
	data := htmlData{
		GeneratedAt: result.GeneratedAt.Format("2006-01-02 15:04:05"),
		RunID:       result.RunID,
		RowsRead:    result.RowsRead,
		Accepted:    result.Accepted,
		Rejected:    result.Rejected,
		Overall:     statsView("All trainers", result.Overall, result.OverallHist),
		Issues:      result.Issues,
	}

	for _, section := range bucketOrder {
		view := bucketView{Title: section.Title, Bucket: string(section.Bucket)}
		for _, ta := range result.Trainers {
			if ta.Bucket != section.Bucket {
				continue
			}
			tv := statsView(ta.Trainer, ta.Stats, ta.Histogram)
			tv.Comments = formatInt(ta.CommentCount)
			tv.Positive = formatInt(ta.PositiveComments)
			tv.Quotes = ta.Quotes
			if ta.Trend != nil {
				tv.EarlyMean = formatScore(ta.Trend.EarlyMean)
				tv.LateMean = formatScore(ta.Trend.LateMean)
				tv.Improvement = formatImprovement(ta.Trend.Improvement)
				tv.Improved = ta.Trend.Improvement >= 0
			}
			view.Trainers = append(view.Trainers, tv)
		}
		if len(view.Trainers) > 0 {
			data.Sections = append(data.Sections, view)
		}
	}

	return data
}

func statsView(id string, stats domain.ScoreStats, hist []domain.HistogramBin) trainerView {
	tv := trainerView{
		Trainer:   id,
		Count:     formatInt(stats.Count),
		Histogram: hist,
	}
	if stats.Count > 0 {
		tv.Mean = formatScore(stats.Mean)
		tv.Min = formatScore(stats.Min)
		tv.Max = formatScore(stats.Max)
	}
	return tv
}

var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>Trainer Feedback Report</title>
<style>
    body { font-family: Arial, sans-serif; margin: 40px; color: #1a1a1a; }
    h1 { margin-bottom: 5px; }
    .meta { color: #6b7280; font-size: 0.9em; margin-bottom: 30px; }
    .section { margin-bottom: 40px; }
    .section h2 { border-bottom: 2px solid #e8ecf1; padding-bottom: 8px; }
    .section.needs_attention h2 { color: #b91c1c; }
    .section.solid h2 { color: #92600a; }
    .section.exemplary h2 { color: #047857; }
    .trainer { background: #f8f9fb; border: 1px solid #e8ecf1; border-radius: 8px; padding: 16px 20px; margin: 12px 0; }
    .trainer .name { font-weight: bold; font-size: 1.1em; }
    .metrics { margin: 8px 0; color: #374151; }
    .metrics span { margin-right: 18px; }
    .hist { color: #6b7280; font-size: 0.85em; }
    .improvement-up { color: #047857; }
    .improvement-down { color: #b91c1c; }
    .quote { border-left: 3px solid #9ca3af; padding-left: 12px; margin: 8px 0; color: #374151; }
    .quote .ref { color: #9ca3af; font-size: 0.8em; }
    table { border-collapse: collapse; margin-top: 10px; }
    th, td { border: 1px solid #e8ecf1; padding: 6px 10px; text-align: left; font-size: 0.9em; }
    th { background: #f8f9fb; }
</style>
</head>
<body>
<h1>Trainer Feedback Report</h1>
<div class="meta">Generated {{.GeneratedAt}} &middot; run {{.RunID}} &middot; {{.RowsRead}} rows read, {{.Accepted}} accepted, {{.Rejected}} rejected</div>

<div class="section">
    <h2>Overall</h2>
    <div class="trainer">
        <div class="metrics">
            <span>Responses: {{.Overall.Count}}</span>
            {{if .Overall.Mean}}<span>Mean: {{.Overall.Mean}}</span>
            <span>Min: {{.Overall.Min}}</span>
            <span>Max: {{.Overall.Max}}</span>{{end}}
        </div>
        <div class="hist">{{range .Overall.Histogram}}{{.Label}}: {{.Count}}&nbsp;&nbsp;{{end}}</div>
    </div>
</div>

{{range .Sections}}
<div class="section {{.Bucket}}">
    <h2>{{.Title}}</h2>
    {{range .Trainers}}
    <div class="trainer">
        <div class="name">{{.Trainer}}</div>
        <div class="metrics">
            <span>Responses: {{.Count}}</span>
            <span>Mean: {{.Mean}}</span>
            <span>Min: {{.Min}}</span>
            <span>Max: {{.Max}}</span>
            <span>Comments: {{.Comments}} ({{.Positive}} positive)</span>
        </div>
        {{if .Improvement}}
        <div class="metrics trend">
            <span>Early: {{.EarlyMean}}</span>
            <span>Late: {{.LateMean}}</span>
            <span class="{{if .Improved}}improvement-up{{else}}improvement-down{{end}}">Improvement: {{.Improvement}}</span>
        </div>
        {{end}}
        <div class="hist">{{range .Histogram}}{{.Label}}: {{.Count}}&nbsp;&nbsp;{{end}}</div>
        {{range .Quotes}}
        <div class="quote">{{.Text}} <span class="ref">[{{.RowRef}}]</span></div>
        {{end}}
    </div>
    {{end}}
</div>
{{end}}

{{if .Issues}}
<div class="section">
    <h2>Parse Issues</h2>
    <table>
        <tr><th>Row</th><th>Reason</th><th>Detail</th></tr>
        {{range .Issues}}
        <tr><td>{{.RowRef}}</td><td>{{.Reason}}</td><td>{{.Detail}}</td></tr>
        {{end}}
    </table>
</div>
{{end}}
</body>
</html>
`))
