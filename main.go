package main

import (
	"flag"
	"fmt"
	"image/png"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ByLCY/etiqueta/config"
	"github.com/ByLCY/etiqueta/dsl"
	"github.com/ByLCY/etiqueta/layout"
	"github.com/ByLCY/etiqueta/logging"
	"github.com/ByLCY/etiqueta/renderer"
	canvasrenderer "github.com/ByLCY/etiqueta/renderer/canvas"
	"github.com/ByLCY/etiqueta/session"
	"github.com/ByLCY/etiqueta/templates"
)

type options struct {
	input     string
	output    string
	templates string
	config    string
	debug     string
	pngDir    string
}

func main() {
	var opts options
	flag.StringVar(&opts.input, "in", "examples/demo.labels", "商品表 DSL 文件路径")
	flag.StringVar(&opts.output, "out", "output/etiquetas.pdf", "PDF 输出路径")
	flag.StringVar(&opts.templates, "templates", "", "模板目录（覆盖配置文件）")
	flag.StringVar(&opts.config, "config", "", "JSON 配置文件路径")
	flag.StringVar(&opts.debug, "debug", "", "排版调试 JSON 输出路径")
	flag.StringVar(&opts.pngDir, "png", "", "逐个商品输出 PNG 的目录")
	verbose := flag.Bool("v", false, "输出调试日志")
	flag.Parse()

	if *verbose {
		logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	pages, err := run(opts)
	if err != nil {
		log.Fatalf("生成价签失败: %v", err)
	}
	fmt.Printf("已生成 PDF：%s（%d 页）\n", opts.output, pages)
}

// run 串联配置、模板、商品表、组版与 PDF 输出，返回页数。
func run(opts options) (int, error) {
	cfg, err := config.Load(opts.config)
	if err != nil {
		return 0, fmt.Errorf("读取配置失败: %w", err)
	}
	if opts.templates != "" {
		cfg.Templates.Dir = opts.templates
	}

	store, err := openTemplates(cfg)
	if err != nil {
		return 0, err
	}
	fonts, err := canvasrenderer.NewFonts(canvasrenderer.FontOptions{
		Regular: canvasrenderer.Resource{Path: cfg.Fonts.Regular},
		Bold:    canvasrenderer.Resource{Path: cfg.Fonts.Bold},
	})
	if err != nil {
		return 0, err
	}
	s, err := session.New(cfg, session.Options{
		Templates:  store,
		Rasterizer: canvasrenderer.NewRasterizer(fonts),
		Fonts:      fonts,
	})
	if err != nil {
		return 0, fmt.Errorf("创建会话失败: %w", err)
	}

	doc, err := parseSheet(opts.input)
	if err != nil {
		return 0, err
	}
	products, err := doc.Products()
	if err != nil {
		return 0, fmt.Errorf("商品表有误:\n%w", err)
	}
	meta, err := doc.Meta()
	if err != nil {
		return 0, fmt.Errorf("文档信息有误:\n%w", err)
	}
	if err := s.ReplaceProducts(products); err != nil {
		return 0, fmt.Errorf("商品校验失败:\n%w", err)
	}

	comp, err := s.Compose()
	if err != nil {
		return 0, fmt.Errorf("组版失败: %w", err)
	}
	if opts.debug != "" {
		if err := writeDebug(comp, opts.debug); err != nil {
			return 0, err
		}
	}
	if opts.pngDir != "" {
		if err := writePNGs(comp, opts.pngDir); err != nil {
			return 0, err
		}
	}

	var r renderer.Renderer = canvasrenderer.NewSheetRenderer(canvasrenderer.DocumentMeta{
		Title:    firstNonEmpty(meta.Title, doc.Name),
		Subject:  meta.Subject,
		Keywords: meta.Keywords,
		Author:   meta.Author,
		Creator:  firstNonEmpty(meta.Creator, "etiqueta"),
	})
	pdfBytes, err := r.Render(comp)
	if err != nil {
		return 0, fmt.Errorf("渲染 PDF 失败: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(opts.output), 0o755); err != nil {
		return 0, fmt.Errorf("创建输出目录失败: %w", err)
	}
	if err := os.WriteFile(opts.output, pdfBytes, 0o644); err != nil {
		return 0, fmt.Errorf("写入 PDF 文件失败: %w", err)
	}
	return len(comp.Pages), nil
}

// openTemplates 扫描模板目录；配置未给出允许列表时放行目录中的全部 .svg。
func openTemplates(cfg config.Config) (*templates.Store, error) {
	fsys := os.DirFS(cfg.Templates.Dir)
	allowed := cfg.Templates.Allowed
	if len(allowed) == 0 {
		found, err := templates.Discover(fsys)
		if err != nil {
			return nil, fmt.Errorf("扫描模板目录 %s 失败: %w", cfg.Templates.Dir, err)
		}
		if len(found) == 0 {
			return nil, fmt.Errorf("模板目录 %s 中没有 .svg 文件", cfg.Templates.Dir)
		}
		allowed = found
	}
	return templates.NewStore(fsys, templates.Options{
		Allowed:   allowed,
		CacheSize: cfg.Limits.TemplateCache,
	}), nil
}

func parseSheet(path string) (*dsl.Document, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("无法打开商品表 %s: %w", path, err)
	}
	defer file.Close()

	doc, err := dsl.Parse(file)
	if err != nil {
		return nil, fmt.Errorf("解析商品表失败: %w", err)
	}
	return doc, nil
}

func writeDebug(comp *session.Composition, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := layout.WriteDebugJSON(comp.Pages, comp.Paper, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}

// writePNGs 为每个不同的渲染结果输出正常方向的 PNG，文件名取商品编号。
func writePNGs(comp *session.Composition, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("创建 PNG 目录失败: %w", err)
	}
	for _, r := range comp.Rendered() {
		if r.Output == nil || r.Output.Normal == nil {
			continue
		}
		name := filepath.Join(dir, safeFileName(r.Product.ID)+".png")
		if err := writePNG(name, r); err != nil {
			return err
		}
	}
	return nil
}

func writePNG(path string, r session.Rendered) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("创建 %s 失败: %w", path, err)
	}
	if err := png.Encode(f, r.Output.Normal); err != nil {
		f.Close()
		return fmt.Errorf("编码 %s 失败: %w", path, err)
	}
	return f.Close()
}

func safeFileName(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			return '_'
		}
		return r
	}, s)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
