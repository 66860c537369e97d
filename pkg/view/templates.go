package view

import "html/template"

// View models handed to the markup templates.

type navEntry struct {
	Name   string
	URL    string
	Active bool
}

type deviceRow struct {
	Name    string
	URL     string
	ID      string
	Address string
	Local   bool
}

type objectRow struct {
	Name     string
	URL      string
	Category string
	Icon     string
}

type propertyRow struct {
	Name        string
	URL         string
	Display     string
	Missing     bool
	Device      string
	Object      string
	Indicator   string // "busy" or "error"; empty when idle
	Icon        string // binary present-value icon; empty otherwise
	Toggle      bool
	ToggleValue string
}

type browseData struct {
	IconBase   string
	Objects    []objectRow
	Properties []propertyRow
	Detail     *propertyDetail
}

type propertyDetail struct {
	IconBase string
	Row      propertyRow
	Updated  int
	Fresh    bool
}

var treeTmpl = template.Must(template.New("tree").Funcs(template.FuncMap{
	"iconize": iconize,
}).Parse(`
{{define "nav"}}<ul class="nav">
{{range .}}<li{{if .Active}} class="active"{{end}}><a href="{{.URL}}">{{.Name}}</a></li>
{{end}}</ul>{{end}}

{{define "devices"}}<table class="devices">
<tr><th>Name</th><th>Identifier</th><th>Address</th></tr>
{{range .}}<tr><td><a href="{{.URL}}">{{.Name}}</a>{{if .Local}} <span class="local">local</span>{{end}}</td><td>{{.ID}}</td><td>{{.Address}}</td></tr>
{{end}}</table>{{end}}

{{define "missing"}}<p class="placeholder">{{.Name}} is not known yet.</p>{{end}}

{{define "control"}}{{if .Toggle}}<form method="post" action="/devices/write" class="toggle{{with .Indicator}} {{.}}{{end}}">
<input type="hidden" name="device" value="{{.Device}}">
{{if .Object}}<input type="hidden" name="object" value="{{.Object}}">{{end}}
<input type="hidden" name="property" value="{{.Name}}">
<input type="hidden" name="value" value="{{.ToggleValue}}">
<button type="submit"{{if eq .Indicator "busy"}} disabled{{end}}>{{if .IconURL}}<img src="{{.IconURL}}" alt="{{.Display}}">{{else}}{{.Display}}{{end}}</button>
</form>{{else if .Missing}}<span class="placeholder">?</span>{{else}}{{if .IconURL}}<img src="{{.IconURL}}" alt="{{.Display}}"> {{end}}<span class="value{{with .Indicator}} {{.}}{{end}}">{{.Display}}</span>{{end}}{{end}}

{{define "refresh"}}<form method="post" action="/devices/update" class="refresh">
<input type="hidden" name="device" value="{{.Device}}">
{{if .Object}}<input type="hidden" name="object" value="{{.Object}}">{{end}}
<input type="hidden" name="property" value="{{.Name}}">
<button type="submit">refresh</button>
</form>{{end}}

{{define "browse"}}{{if .Objects}}<section class="objects">
<h2>Objects</h2>
<table>
<tr><th></th><th>Name</th><th>Type</th></tr>
{{range .Objects}}<tr><td>{{if .Icon}}<img src="{{$.IconBase}}/{{.Icon}}" alt="{{.Category}}">{{end}}</td><td><a href="{{.URL}}">{{.Name}}</a></td><td>{{.Category}}</td></tr>
{{end}}</table>
</section>
{{end}}{{if .Properties}}<section class="properties">
<h2>Properties</h2>
<table>
<tr><th>Name</th><th>Value</th><th></th></tr>
{{range .Properties}}<tr><td><a href="{{.URL}}">{{.Name}}</a></td><td>{{template "control" (iconize . $.IconBase)}}</td><td>{{template "refresh" .}}</td></tr>
{{end}}</table>
</section>
{{end}}{{with .Detail}}<section class="detail">
<h2>{{.Row.Name}}</h2>
{{if .Row.Missing}}<span class="placeholder">?</span>{{else}}{{template "control" (iconize .Row .IconBase)}}
<p class="freshness">updated {{.Updated}}s ago{{if .Fresh}} (fresh){{end}}</p>{{end}}
</section>
{{end}}{{end}}
`))

// controlData augments a property row with its resolved icon URL for the
// control template.
type controlData struct {
	propertyRow
	IconURL string
}

func iconize(row propertyRow, iconBase string) controlData {
	d := controlData{propertyRow: row}
	if row.Icon != "" && iconBase != "" {
		d.IconURL = iconBase + "/" + row.Icon
	}
	return d
}
