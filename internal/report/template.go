package report

// HTMLTemplate is the daily brief page. Styles are inline so the file has
// no external dependencies beyond article links.
const HTMLTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Title}}</title>
<style>
  :root {
    --text: #1f2937;
    --muted: #6b7280;
    --border: #e5e7eb;
    --panel: #f3f4f6;
    --green: #10b981;
    --red: #ef4444;
    --amber: #f59e0b;
    --blue: #3b82f6;
  }
  * { box-sizing: border-box; }
  body {
    font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Arial, sans-serif;
    color: var(--text);
    max-width: 800px;
    margin: 0 auto;
    padding: 20px;
    background-color: #f5f5f5;
  }
  .hero {
    background: linear-gradient(135deg, #667eea 0%, #764ba2 100%);
    color: white;
    padding: 30px;
    border-radius: 10px;
    text-align: center;
    box-shadow: 0 4px 6px rgba(0,0,0,0.1);
  }
  .hero h1 { margin: 0; font-size: 32px; }
  .hero p { margin: 10px 0 0 0; opacity: 0.9; font-size: 18px; }
  .hero .tagline { margin-top: 5px; opacity: 0.8; font-size: 14px; }
  .card {
    background: white;
    margin: 20px 0;
    padding: 20px;
    border-radius: 10px;
    box-shadow: 0 2px 4px rgba(0,0,0,0.1);
  }
  .card h2 { border-bottom: 2px solid var(--border); padding-bottom: 10px; margin-top: 0; }
  .panel { background: var(--panel); padding: 15px; border-radius: 8px; }
  .overview { margin-top: 15px; font-style: italic; color: var(--muted); }
  .callout { margin-top: 20px; padding: 15px; border-radius: 8px; border-left: 4px solid; }
  .callout h3 { margin: 0 0 10px 0; }
  .callout ul { margin: 0; padding-left: 20px; }
  .info { background: #eff6ff; border-color: var(--blue); }
  .info h3 { color: #1e40af; }
  .warn { background: #fef3c7; border-color: var(--amber); }
  .warn h3 { color: #92400e; }
  .up { color: var(--green); }
  .down { color: var(--red); }
  .average { padding: 15px; border-radius: 8px; text-align: center; font-size: 18px; }
  .average.up { background: #d1fae5; }
  .average.down { background: #fee2e2; }
  table { width: 100%; border-collapse: collapse; margin-top: 15px; }
  th { padding: 12px; text-align: left; border-bottom: 2px solid var(--border); background: var(--panel); }
  td { padding: 10px 12px; border-bottom: 1px solid var(--border); }
  .chart { margin-top: 15px; overflow-x: auto; }
  .item { background: #f9fafb; padding: 15px; margin: 10px 0; border-radius: 8px; border-left: 4px solid var(--muted); }
  .item h3 { margin: 0 0 10px 0; }
  .item p { margin: 5px 0; }
  .catalyst { background: #fef3c7; padding: 8px; border-radius: 4px; }
  .subtitle { color: var(--muted); font-style: italic; }
  .actions { background: #eff6ff; padding: 20px 20px 20px 40px; border-radius: 8px; border-left: 4px solid var(--blue); margin: 0; }
  .news { background: var(--panel); padding: 10px; margin: 5px 0; border-radius: 5px; }
  .news .headline { margin: 0; font-weight: 600; }
  .news .meta { margin: 5px 0 0 0; font-size: 12px; color: var(--muted); }
  .news a { color: var(--blue); }
  .footer { margin-top: 30px; padding: 20px; background: #f9fafb; border-radius: 8px; text-align: center; font-size: 12px; color: var(--muted); }
  .footer p { margin: 0; }
  .footer p + p { margin-top: 10px; }
</style>
</head>
<body>

<div class="hero">
  <h1>📈 Your Daily Market Brief</h1>
  <p>{{.Date}}</p>
  <p class="tagline">📰 Powered by Real-Time News Analysis</p>
</div>

<div class="card">
  <h2>🌍 Market Overview</h2>
  <div class="panel">
    {{range .Indices}}{{trend .Change}} <strong>{{.Label}}</strong>: {{printf "%.2f" .Price}} (<span class="{{if .Up}}up{{else}}down{{end}}">{{pct .Change}}</span>)<br>
    {{end}}
    <p class="overview">{{.Overview}}</p>
  </div>
  {{if .Highlights}}
  <div class="callout info">
    <h3>📰 Key News Highlights</h3>
    <ul>
      {{range .Highlights}}<li>📰 {{.}}</li>
      {{end}}
    </ul>
  </div>
  {{end}}
</div>

<div class="card">
  <h2>📊 Your Portfolio</h2>
  <p class="average {{if ge .AverageChange 0.0}}up{{else}}down{{end}}">
    <strong>Average Change: {{trend .AverageChange}} {{pct .AverageChange}}</strong>
  </p>
  <table>
    <thead>
      <tr><th>Stock</th><th>Price</th><th>Change</th><th>Volume</th><th>Mkt Cap</th><th>News</th></tr>
    </thead>
    <tbody>
      {{range .Portfolio}}
      <tr>
        <td>{{trend .Change}} <strong>{{.Label}}</strong></td>
        <td>{{price .Price}}</td>
        <td class="{{if .Up}}up{{else}}down{{end}}">{{pct .Change}}</td>
        <td>{{.Volume}}</td>
        <td>{{.MarketCap}}</td>
        <td>{{.NewsCount}} articles</td>
      </tr>
      {{end}}
    </tbody>
  </table>
  {{if .Chart}}<div class="chart">{{.Chart}}</div>{{end}}
  <div class="callout warn">
    <h3>⚠️ Alerts</h3>
    <ul>
      {{range .Alerts}}<li>⚠️ {{.}}</li>
      {{else}}<li>✅ No major alerts detected</li>
      {{end}}
    </ul>
  </div>
</div>

{{if .StockAnalysis}}
<div class="card">
  <h2>🔍 Stock-by-Stock Analysis</h2>
  {{range .StockAnalysis}}
  <div class="item" style="border-left-color: {{.Color}};">
    <h3 style="color: {{.Color}};">{{.Ticker}} - {{.Sentiment}}</h3>
    <p><strong>📰 Key News:</strong> {{.KeyNews}}</p>
    <p>{{.Analysis}}</p>
  </div>
  {{end}}
</div>
{{end}}

{{if .Recommendations}}
<div class="card">
  <h2>🎯 Today's Opportunities</h2>
  <p class="subtitle">Based on recent news and market analysis</p>
  {{range .Recommendations}}
  <div class="item" style="border-left-color: {{.Color}};">
    <h3 style="color: {{.Color}};">{{.Index}}. {{.Ticker}} - {{.Action}}</h3>
    <p><strong>Price:</strong> {{price .CurrentPrice}} → Target: {{price .TargetPrice}} ({{upside .Upside}})</p>
    <p><strong>Risk:</strong> {{.RiskLevel}} | <strong>Timeframe:</strong> {{.Timeframe}}</p>
    <p class="catalyst"><strong>📰 News Catalyst:</strong> {{.Catalyst}}</p>
    <p>{{.Rationale}}</p>
  </div>
  {{end}}
</div>
{{end}}

{{if .ActionItems}}
<div class="card">
  <h2>💡 Action Items</h2>
  <ul class="actions">
    {{range .ActionItems}}<li>{{.}}</li>
    {{end}}
  </ul>
</div>
{{end}}

{{if .NewsByStock}}
<div class="card">
  <h2>📱 Recent News by Stock</h2>
  {{range .NewsByStock}}
  <div>
    <h3>{{.Ticker}} - {{.Name}}</h3>
    {{range .Items}}
    <div class="news">
      <p class="headline">{{.Title}}</p>
      <p class="meta">{{.Publisher}} - {{.Published}}{{if .Link}} | <a href="{{.Link}}" target="_blank" rel="noopener">Read more →</a>{{end}}</p>
    </div>
    {{end}}
  </div>
  {{end}}
</div>
{{end}}

<div class="footer">
  <p><strong>Disclaimer:</strong> This analysis is for informational purposes only and does not constitute financial advice. Always do your own research before making investment decisions.</p>
  <p>Generated by marketbrief | {{.GeneratedAt}}</p>
</div>

</body>
</html>
`
