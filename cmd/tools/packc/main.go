package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/annel0/blockpacks/internal/config"
	"github.com/annel0/blockpacks/internal/lang"
	"github.com/annel0/blockpacks/internal/logging"
	"github.com/annel0/blockpacks/internal/pack"
	"github.com/annel0/blockpacks/internal/pack/model"
	"github.com/annel0/blockpacks/internal/render"
)

func main() {
	cfg := config.Default()
	var (
		dir      = flag.String("dir", cfg.Packs.GetDir(), "каталог паков")
		command  = flag.String("cmd", "report", "Command: report, list, render, lang")
		packName = flag.String("pack", "", "фильтр по паку")
		object   = flag.String("object", "", "объект для render (идентификатор внутри пака)")
		asJSON   = flag.Bool("json", false, "вывод в JSON")
		debug    = flag.Bool("debug", false, "подробные ошибки компиляции")
		modID    = flag.String("modid", cfg.Packs.ModID, "mod id регистрируемых объектов")
		language = flag.String("lang", cfg.Packs.Language, "язык заголовков")
		noAO     = flag.Bool("no-ao", !cfg.Render.AmbientOcclusion, "отключить ambient occlusion для render")
	)
	flag.Parse()

	level := logging.WARN
	if *debug {
		level = logging.DEBUG
	}
	logging.SetDefaultLogger(logging.NewWriterLogger("packc", os.Stderr, level))

	translations := lang.NewRegistry()
	res, err := pack.NewCompiler(pack.Options{
		ModID:    *modID,
		Debug:    *debug,
		Language: *language,
		Lang:     translations,
	}).LoadDirectory(*dir)
	if err != nil {
		log.Fatalf("❌ Compile failed: %v", err)
	}

	out := os.Stdout
	switch *command {
	case "report":
		err = printReport(out, res.Report, *packName, *asJSON)
	case "list":
		err = printObjects(out, res, *packName, *asJSON)
	case "render":
		err = renderObject(out, res, *packName, *object, !*noAO)
	case "lang":
		printLang(out, translations, *language)
	default:
		log.Fatalf("❌ Unknown command: %s", *command)
	}
	if err != nil {
		log.Fatalf("❌ %s failed: %v", *command, err)
	}
}

func printReport(w io.Writer, report *pack.Report, packName string, asJSON bool) error {
	if packName != "" {
		filtered := *report
		filtered.Packs = nil
		for _, p := range report.Packs {
			if strings.EqualFold(p.Name, packName) {
				filtered.Packs = append(filtered.Packs, p)
				filtered.Issues = report.IssuesFor(p.Name)
			}
		}
		report = &filtered
	}

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	fmt.Fprintf(w, "Session %s: %d packs, %d models, %d recipes, %d issues (%s)\n",
		report.Session, len(report.Packs), report.Models, report.Recipes, len(report.Issues), report.Duration)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PACK\tOBJECTS\tTYPES\tISSUES")
	for _, p := range report.Packs {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%d\n", p.Name, p.Objects, formatTypes(p.Types), p.Issues)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, i := range report.Issues {
		fmt.Fprintf(w, "  [%s] %s/%s: %s\n", i.Kind, i.Pack, i.Object, i.Message)
	}
	return nil
}

func formatTypes(types map[string]int) string {
	keys := make([]string, 0, len(types))
	for k := range types {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%d", k, types[k])
	}
	return strings.Join(parts, ",")
}

type objectRow struct {
	Pack     string   `json:"pack"`
	Name     string   `json:"name"`
	Type     string   `json:"type"`
	Title    string   `json:"title"`
	Model    string   `json:"model,omitempty"`
	Nodes    []string `json:"nodes"`
	Resolved string   `json:"resolved,omitempty"`
}

func printObjects(w io.Writer, res *pack.Result, packName string, asJSON bool) error {
	var rows []objectRow
	for _, p := range res.Packs {
		if packName != "" && !strings.EqualFold(p.Name, packName) {
			continue
		}
		for _, o := range p.Objects() {
			kinds := o.Nodes().Attached()
			sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
			nodes := make([]string, len(kinds))
			for i, k := range kinds {
				nodes[i] = k.String()
			}
			row := objectRow{
				Pack:  p.Name,
				Name:  o.RegistryName(),
				Type:  o.Type,
				Title: o.Title,
				Model: o.ModelName,
				Nodes: nodes,
			}
			if o.Game.Name != "" {
				row.Resolved = o.Game.Identifier()
			}
			rows = append(rows, row)
		}
	}

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tTYPE\tTITLE\tMODEL\tNODES")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.Name, r.Type, r.Title, r.Model, strings.Join(r.Nodes, ","))
	}
	return tw.Flush()
}

// atlas раскладывает текстуры по ячейкам 16x16 условного атласа 256x256
type atlas struct {
	icons map[string]model.Icon
}

func (a *atlas) RegisterIcon(texture string) model.Icon {
	if icon, ok := a.icons[texture]; ok {
		return icon
	}
	cell := len(a.icons)
	u := float64(cell%16) / 16
	v := float64(cell/16%16) / 16
	icon := model.Icon{Name: texture, MinU: u, MaxU: u + 1.0/16, MinV: v, MaxV: v + 1.0/16, Width: 16, Height: 16}
	a.icons[texture] = icon
	return icon
}

type printer struct {
	w     io.Writer
	quads int
}

func (p *printer) Draw(q render.Quad) {
	p.quads++
	icon := ""
	if q.Icon != nil {
		icon = q.Icon.Parent.Name
	}
	fmt.Fprintf(p.w, "quad %d side=%s texture=%d icon=%s\n", p.quads, q.Side, q.TextureID, icon)
	for _, v := range q.Vertices {
		fmt.Fprintf(p.w, "  (%.4f %.4f %.4f) uv=(%.4f %.4f) color=%06X\n", v.Pos[0], v.Pos[1], v.Pos[2], v.U, v.V, v.Color)
	}
}

// renderObject отрисовывает объект в проходе инвентаря и печатает грани
func renderObject(w io.Writer, res *pack.Result, packName, identifier string, ao bool) error {
	p, ok := res.Pack(packName)
	if !ok {
		return fmt.Errorf("pack [%s] not found", packName)
	}

	icons := &atlas{icons: make(map[string]model.Icon)}
	var block render.Block
	for _, b := range p.Blocks {
		if strings.EqualFold(b.Identifier, identifier) {
			b.RegisterIcons(icons)
			block = render.ForBlock(b)
		}
	}
	for _, c := range p.Crops {
		if strings.EqualFold(c.Identifier, identifier) {
			c.RegisterIcons(icons)
			block = render.ForCrop(c)
		}
	}
	if block == nil {
		return fmt.Errorf("block [%s] not found in pack [%s]", identifier, p.Name)
	}

	out := &printer{w: w}
	n := render.New(ao).Render(render.Context{Pass: render.PassInventory}, block, out)
	fmt.Fprintf(w, "%d quads\n", n)
	return nil
}

func printLang(w io.Writer, translations *lang.Registry, language string) {
	for _, key := range translations.Keys(language) {
		value, _ := translations.Get(language, key)
		fmt.Fprintf(w, "%s=%s\n", key, value)
	}
}
