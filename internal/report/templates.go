package report

const tmplStyle = `
:root{--bg-deep:#0a0c10;--bg-base:#0f1218;--bg-surface:#161b24;--bg-elevated:#1c222e;--border-dim:#1e2534;--border-base:#2a3244;--border-bright:#3a4560;--text-muted:#4a5568;--text-dim:#718096;--text-base:#a0aec0;--text-bright:#cbd5e0;--text-white:#e2e8f0;--accent-green:#39d98a;--accent-green-dim:#1a3a2a;--accent-amber:#f0b429;--accent-amber-dim:#3a2e1a;--accent-blue:#4dabf7;--accent-blue-dim:#1a2a3a;--accent-red:#fc5c65;--accent-red-dim:#3a1a1a;--accent-purple:#a78bfa;--accent-cyan:#22d3ee;--accent-cyan-dim:#1a2a33;--accent-orange:#fb923c;--font-display:'Outfit',system-ui,sans-serif;--font-mono:'JetBrains Mono','Fira Code',monospace}
*,*::before,*::after{box-sizing:border-box;margin:0;padding:0}
html{scroll-behavior:smooth}
body{font-family:var(--font-mono);background:var(--bg-deep);color:var(--text-base);line-height:1.6;min-height:100vh;overflow-x:hidden}
.layout{display:grid;grid-template-columns:56px 1fr;min-height:100vh}
.sidebar{position:fixed;top:0;left:0;width:56px;height:100vh;background:var(--bg-base);border-right:1px solid var(--border-dim);display:flex;flex-direction:column;align-items:center;padding:12px 0;gap:2px;overflow-y:auto;z-index:100;scrollbar-width:none}
.minimap-bar{display:flex;align-items:center;justify-content:center;width:36px;min-height:var(--bar-h,8px);background:var(--border-dim);border-radius:3px;text-decoration:none;transition:all .2s ease}
.minimap-bar:hover{background:var(--accent-green);transform:scaleX(1.15)}
.minimap-label{font-size:7px;color:var(--text-muted)}
.main{grid-column:2;padding:0 40px 80px;max-width:1200px;width:100%;margin:0 auto}
.hero{padding:60px 0 40px}
.hero-label{font-size:11px;letter-spacing:4px;text-transform:uppercase;color:var(--accent-green);margin-bottom:12px}
.hero-title{font-family:var(--font-display);font-size:48px;font-weight:800;color:var(--text-white);letter-spacing:-1.5px;line-height:1.1;margin-bottom:8px}
.hero-title span{color:var(--accent-green)}
.hero-sub{font-size:13px;color:var(--text-dim)}
.dashboard{display:grid;grid-template-columns:repeat(auto-fit,minmax(160px,1fr));gap:12px;margin-bottom:40px}
.dash-card{background:var(--bg-surface);border:1px solid var(--border-dim);border-top:2px solid var(--card-accent,var(--accent-green));border-radius:12px;padding:20px}
.dash-card-value{font-family:var(--font-display);font-size:32px;font-weight:800;color:var(--text-white);line-height:1;margin-bottom:6px}
.dash-card-label{font-size:11px;letter-spacing:2px;text-transform:uppercase;color:var(--text-muted)}
.breakdown{background:var(--bg-surface);border:1px solid var(--border-dim);border-radius:12px;padding:20px;margin-bottom:40px}
.breakdown-title{font-size:11px;letter-spacing:3px;text-transform:uppercase;color:var(--text-muted);margin-bottom:16px}
.breakdown-grid{display:flex;flex-wrap:wrap;gap:8px}
.breakdown-item{display:flex;align-items:center;gap:8px;background:var(--bg-elevated);border:1px solid var(--border-dim);border-radius:8px;padding:8px 14px}
.breakdown-icon{font-size:14px;color:var(--accent-green)}
.breakdown-name{font-size:12px;color:var(--text-bright)}
.breakdown-count{font-size:11px;font-weight:700;color:var(--accent-amber);background:var(--accent-amber-dim);padding:2px 8px;border-radius:10px}
.glow-line{height:1px;background:linear-gradient(90deg,transparent,var(--accent-green),transparent);margin:40px 0;opacity:.3}
.step{display:grid;grid-template-columns:32px 1fr;gap:20px;opacity:0;transform:translateY(16px);animation:step-appear .5s ease forwards;animation-delay:calc(var(--step-index,0) * .03s)}
@keyframes step-appear{to{opacity:1;transform:translateY(0)}}
.step-marker{display:flex;flex-direction:column;align-items:center;padding-top:20px}
.step-marker-dot{width:12px;height:12px;background:var(--accent-green);border-radius:50%;flex-shrink:0}
.step-marker-line{width:1px;flex:1;background:linear-gradient(180deg,var(--accent-green) 0%,var(--border-dim) 100%);margin-top:8px}
.step-body{background:var(--bg-surface);border:1px solid var(--border-dim);border-radius:12px;overflow:hidden;margin-bottom:16px}
.step-header{display:flex;justify-content:space-between;align-items:center;padding:14px 20px;border-bottom:1px solid var(--border-dim);flex-wrap:wrap;gap:10px}
.step-header-left,.step-header-right{display:flex;align-items:center;gap:10px;flex-wrap:wrap}
.step-number{font-family:var(--font-display);font-size:22px;font-weight:800;color:var(--text-white);min-width:36px}
.step-time{font-size:11px;color:var(--text-muted)}
.step-badge{font-size:10px;font-weight:600;letter-spacing:1px;text-transform:uppercase;padding:3px 10px;border-radius:10px}
.step-badge-tools{color:var(--accent-green);background:var(--accent-green-dim)}
.step-badge-text{color:var(--accent-blue);background:var(--accent-blue-dim)}
.stat{font-size:11px;padding:3px 10px;border-radius:4px}
.stat-cost{color:var(--accent-amber);background:var(--accent-amber-dim)}
.stat-tokens{color:var(--accent-cyan);background:var(--accent-cyan-dim)}
.stat-icon{font-size:9px;opacity:.7;margin:0 2px}
.stat-duration{color:var(--text-dim);background:var(--bg-elevated)}
.stat-reason{font-weight:600;text-transform:uppercase}
.stat-reason-stop{color:var(--accent-green);background:var(--accent-green-dim)}
.stat-reason-tool-calls{color:var(--accent-blue);background:var(--accent-blue-dim)}
.step-content{padding:16px 20px}
.text-message{background:var(--bg-elevated);border-left:3px solid var(--accent-blue);padding:14px 18px;border-radius:0 8px 8px 0;margin-bottom:12px;white-space:pre-wrap;word-break:break-word;font-size:13px;color:var(--text-bright)}
.text-prefix{color:var(--accent-blue);margin-right:6px;opacity:.6}
.tool-call{background:var(--bg-base);border:1px solid var(--border-dim);border-radius:8px;margin-bottom:12px;overflow:hidden}
.tool-call.task,.tool-call.skill{border-left:3px solid var(--accent-purple)}
.tool-call.todowrite{border-left:3px solid var(--accent-amber)}
.tool-call.edit{border-left:3px solid var(--accent-green)}
.tool-call.write{border-left:3px solid var(--accent-blue)}
.tool-call.read,.tool-call.grep{border-left:3px solid var(--accent-cyan)}
.tool-call.glob{border-left:3px solid var(--accent-orange)}
.tool-call.bash{border-left:3px solid var(--text-dim)}
.tool-header{display:flex;align-items:center;gap:10px;padding:10px 14px;border-bottom:1px solid var(--border-dim)}
.tool-icon{font-size:14px;color:var(--accent-green);width:20px;text-align:center}
.tool-name{font-size:12px;font-weight:600;color:var(--text-bright);flex:1;overflow:hidden;text-overflow:ellipsis;white-space:nowrap}
.tool-status{font-size:9px;font-weight:700;letter-spacing:1.5px;padding:3px 10px;border-radius:10px}
.tool-status.success{color:var(--accent-green);background:var(--accent-green-dim)}
.tool-status.error{color:var(--accent-red);background:var(--accent-red-dim)}
.tool-status.pending{color:var(--accent-amber);background:var(--accent-amber-dim)}
.tool-details{font-size:12px}
.tool-details-toggle{display:block;padding:8px 14px;font-size:11px;color:var(--text-muted);cursor:pointer;list-style:none}
.tool-details-inner{padding:0 14px 14px}
.tool-input{margin-bottom:12px}
.tool-input-line{margin-bottom:8px;color:var(--text-dim)}
.tool-input-line strong{color:var(--text-base);font-weight:600}
.tool-output-section{margin-top:12px;padding-top:12px;border-top:1px solid var(--border-dim)}
.output-label{font-size:9px;font-weight:700;letter-spacing:2px;color:var(--text-muted);display:block;margin-bottom:8px}
.code-block{background:var(--bg-deep);color:var(--accent-green);padding:14px 16px;border-radius:8px;border:1px solid var(--border-dim);overflow-x:auto;font-size:12px;margin-top:8px;white-space:pre-wrap;word-break:break-word}
.code-block.output{color:var(--accent-blue);border-color:var(--accent-blue-dim)}
.code-block.diff-old{color:var(--accent-red);border-color:var(--accent-red-dim)}
.code-block.diff-new{color:var(--accent-green);border-color:var(--accent-green-dim)}
code{background:var(--bg-elevated);color:var(--accent-cyan);padding:2px 7px;border-radius:4px;font-size:.9em;border:1px solid var(--border-dim)}
.floating-controls{position:fixed;bottom:24px;right:24px;display:flex;flex-direction:column;gap:8px;z-index:200}
.float-btn{width:44px;height:44px;display:flex;align-items:center;justify-content:center;background:var(--bg-elevated);border:1px solid var(--border-base);border-radius:8px;color:var(--text-base);text-decoration:none;font-size:16px}
.float-btn:hover{background:var(--accent-green);color:var(--bg-deep)}
@media (max-width:768px){.layout{grid-template-columns:1fr}.sidebar,.step-marker{display:none}.main{padding:0 16px 60px}.hero-title{font-size:28px}.step{grid-template-columns:1fr;gap:0}}
`

const tmplScript = `
const observer = new IntersectionObserver((entries) => {
	entries.forEach(entry => {
		if (entry.isIntersecting) {
			entry.target.style.animationPlayState = 'running';
		}
	});
}, { threshold: 0.05 });

const steps = document.querySelectorAll('.step');
const bars = document.querySelectorAll('.minimap-bar');
steps.forEach(step => {
	step.style.animationPlayState = 'paused';
	observer.observe(step);
});

const scrollObserver = new IntersectionObserver((entries) => {
	entries.forEach(entry => {
		const idx = Array.from(steps).indexOf(entry.target);
		if (idx >= 0 && bars[idx]) {
			bars[idx].style.background = entry.isIntersecting ? 'var(--accent-green)' : '';
		}
	});
}, { threshold: 0.3 });
steps.forEach(step => scrollObserver.observe(step));
`

const tmplPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Title}}</title>
<link rel="preconnect" href="https://fonts.googleapis.com">
<link rel="preconnect" href="https://fonts.gstatic.com" crossorigin>
<link href="https://fonts.googleapis.com/css2?family=JetBrains+Mono:wght@300;400;500;600;700&family=Outfit:wght@300;400;500;600;700;800;900&display=swap" rel="stylesheet">
<style>` + tmplStyle + `</style>
</head>
<body>
<div class="layout">
<nav class="sidebar">
{{- range .Minimap}}
<a href="#step-{{.Index}}" class="minimap-bar" style="--bar-h: {{.Height}}px" title="Step {{.Number}}: {{.Tools}} tools"><span class="minimap-label">{{.Number}}</span></a>
{{- end}}
</nav>
<main class="main">
<header class="hero">
<div class="hero-label">Mission Log</div>
<h1 class="hero-title">Transcript <span>Replay</span></h1>
<p class="hero-sub">{{.Summary.Steps}} steps · {{.Summary.ToolCalls}} tool calls · {{.Summary.Messages}} messages</p>
</header>
<section class="dashboard">
<div class="dash-card" style="--card-accent: var(--accent-green)"><div class="dash-card-value">{{.Summary.Steps}}</div><div class="dash-card-label">Steps</div></div>
<div class="dash-card" style="--card-accent: var(--accent-blue)"><div class="dash-card-value">{{.Summary.ToolCalls}}</div><div class="dash-card-label">Tool Calls</div></div>
<div class="dash-card" style="--card-accent: var(--accent-amber)"><div class="dash-card-value">{{.Cost}}</div><div class="dash-card-label">Total Cost</div></div>
<div class="dash-card" style="--card-accent: var(--accent-cyan)"><div class="dash-card-value">{{.InputK}}</div><div class="dash-card-label">Input Tokens</div></div>
<div class="dash-card" style="--card-accent: var(--accent-purple)"><div class="dash-card-value">{{.OutputK}}</div><div class="dash-card-label">Output Tokens</div></div>
</section>
<section class="breakdown">
<div class="breakdown-title">Tool Breakdown</div>
<div class="breakdown-grid">
{{- range .Breakdown}}
<div class="breakdown-item"><span class="breakdown-icon">{{.Icon}}</span><span class="breakdown-name">{{.Name}}</span><span class="breakdown-count">{{.Count}}</span></div>
{{- end}}
</div>
</section>
<div class="glow-line"></div>
<section class="timeline">
{{- range .Steps}}
{{template "step" .}}
{{- end}}
</section>
</main>
</div>
<div class="floating-controls">
<a class="float-btn" href="#step-0" title="Jump to top">↑</a>
<a class="float-btn" href="#step-{{.LastIndex}}" title="Jump to bottom">↓</a>
</div>
<script>` + tmplScript + `</script>
</body>
</html>
{{define "step"}}<div class="step" id="step-{{.Index}}" style="--step-index: {{.Index}}">
<div class="step-marker"><div class="step-marker-dot"></div><div class="step-marker-line"></div></div>
<div class="step-body">
<div class="step-header">
<div class="step-header-left">
<span class="step-number">{{.Number}}</span>
<span class="step-time">{{.Time}}</span>
<span class="step-badge step-badge-tools">{{.Tools}} {{plural .Tools "tool"}}</span>
{{- if .Messages}}
<span class="step-badge step-badge-text">{{.Messages}} {{plural .Messages "msg"}}</span>
{{- end}}
</div>
<div class="step-header-right">
{{- range .Stats}}
{{- if .Tokens}}
<span class="stat {{.Class}}"><span class="stat-icon">↑</span>{{index .Tokens 0}} <span class="stat-icon">↓</span>{{index .Tokens 1}}</span>
{{- else if .Icon}}
<span class="stat {{.Class}}"><span class="stat-icon">{{.Icon}}</span> {{.Text}}</span>
{{- else}}
<span class="stat {{.Class}}">{{.Text}}</span>
{{- end}}
{{- end}}
</div>
</div>
<div class="step-content">
{{- range .Entries}}
{{- if .Text}}
<div class="text-message"><span class="text-prefix">▸</span>{{.Text}}</div>
{{- else if .Tool}}
{{template "tool" .Tool}}
{{- end}}
{{- end}}
</div>
</div>
</div>
{{end}}
{{define "tool"}}<div class="tool-call {{.Class}}">
<div class="tool-header">
<span class="tool-icon">{{.Icon}}</span>
<span class="tool-name">{{.Title}}</span>
<span class="tool-status {{.StatusClass}}">{{.StatusLabel}}</span>
</div>
<details class="tool-details">
<summary class="tool-details-toggle">Expand details</summary>
<div class="tool-details-inner">
<div class="tool-input">
{{- range .Inputs}}
{{- if .IsBlock}}
<div class="tool-input-line"><strong>{{.Label}}:</strong></div>
<pre class="code-block{{if .BlockClass}} {{.BlockClass}}{{end}}">{{.Value}}</pre>
{{- else if .IsCode}}
<div class="tool-input-line"><strong>{{.Label}}:</strong> <code>{{.Value}}</code></div>
{{- else}}
<div class="tool-input-line"><strong>{{.Label}}:</strong> {{.Value}}</div>
{{- end}}
{{- end}}
</div>
{{- if .HasOutput}}
<div class="tool-output-section"><span class="output-label">OUTPUT</span><pre class="code-block output">{{.Output}}</pre></div>
{{- end}}
</div>
</details>
</div>
{{end}}`
