package svg

const tmplSurface = `
{{define "surface"}}<svg xmlns="http://www.w3.org/2000/svg" width="{{num .Plot.SurfaceWidth}}" height="{{num .Plot.SurfaceHeight}}" overflow="visible">
<g transform="{{translate .Plot.Context.Margin.Left .Plot.Context.Margin.Top}}">
{{- range .Plot.Marks}}
<circle class="dot" r="{{num .R}}" cx="{{num .CX}}" cy="{{num .CY}}" fill="{{.Fill}}" data-xvalue="{{.XValue}}" data-yvalue="{{.YValue}}" data-tooltip="{{.Tooltip}}"></circle>
{{- end}}
{{template "axis-left" .Plot.YAxis}}
{{template "axis-bottom" .Plot.XAxis}}
{{- with .Plot.YTitle}}
<text id="{{.ID}}" transform="{{transform .X .Y .Rotate}}" text-anchor="middle">{{.Text}}</text>
{{- end}}
{{- with .Plot.XTitle}}
<text id="{{.ID}}" transform="{{transform .X .Y .Rotate}}" text-anchor="middle">{{.Text}}</text>
{{- end}}
<g id="legend" transform="{{translate .Plot.Legend.X .Plot.Legend.Y}}">
{{- range .Plot.Legend.Entries}}
<g class="legend-entry" data-doping="{{.Doping}}"><rect x="0" y="{{num .SwatchY}}" width="{{num .Size}}" height="{{num .Size}}" fill="{{.Fill}}"></rect><text x="{{num .LabelX}}" y="{{num .LabelY}}">{{.Label}}</text></g>
{{- end}}
</g>
</g>
</svg>{{end}}

{{define "axis-left"}}<g id="{{.ID}}" fill="none" font-size="10" font-family="sans-serif" text-anchor="end">
<path class="domain" stroke="currentColor" d="{{leftDomain .}}"></path>
{{- range .Ticks}}
<g class="tick" opacity="1" transform="{{translate 0 (crisp .Pos)}}"><line stroke="currentColor" x2="-6"></line><text fill="currentColor" x="-9" dy="0.32em">{{.Label}}</text></g>
{{- end}}
</g>{{end}}

{{define "axis-bottom"}}<g id="{{.ID}}" transform="{{translate .X .Y}}" fill="none" font-size="10" font-family="sans-serif" text-anchor="middle">
<path class="domain" stroke="currentColor" d="{{bottomDomain .}}"></path>
{{- range .Ticks}}
<g class="tick" opacity="1" transform="{{translate (crisp .Pos) 0}}"><line stroke="currentColor" y2="6"></line><text fill="currentColor" y="9" dy="0.71em">{{.Label}}</text></g>
{{- end}}
</g>{{end}}
`

const tmplPage = `
{{define "page"}}<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width,initial-scale=1">
<title>{{.Title}}</title>
<style>
body{font-family:sans-serif;margin:0;padding:24px;color:#222}
h1{font-size:20px;margin-bottom:16px}
#scatter-plot-container{position:relative}
.dot{stroke:#222;stroke-width:.5;cursor:pointer}
#tooltip{position:absolute;margin:0;padding:8px;font-size:12px;background:#fff8dc;border:1px solid #999;border-radius:4px;pointer-events:none;white-space:pre-wrap}
.tooltip--hidden{display:none}
</style>
</head>
<body>
<h1 id="title">{{.Title}}</h1>
<div id="{{.ContainerID}}">
<div id="{{.SurfaceID}}">
{{template "surface" .}}
</div>
<pre id="{{.TooltipID}}" class="{{.Tooltip.Class}}" data-offset="{{.Offset}}"{{with .Tooltip.Year}} data-year="{{.}}"{{end}}>{{.Tooltip.Text}}</pre>
</div>
<script>
(function () {
  var tip = document.getElementById("tooltip");
  var offset = Number(tip.getAttribute("data-offset")) || 0;
  var dots = document.querySelectorAll("#scatter-plot .dot");
  for (var i = 0; i < dots.length; i++) {
    dots[i].addEventListener("mouseover", function (e) {
      var dot = e.currentTarget;
      tip.textContent = dot.getAttribute("data-tooltip");
      tip.setAttribute("data-year", dot.getAttribute("data-xvalue"));
      tip.style.left = (e.pageX + offset) + "px";
      tip.style.top = (e.pageY + offset) + "px";
      tip.classList.remove("tooltip--hidden");
    });
    dots[i].addEventListener("mouseout", function () {
      tip.classList.add("tooltip--hidden");
    });
  }
})();
</script>
</body>
</html>{{end}}
`
