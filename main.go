package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ByLCY/parabreak/dsl"
	"github.com/ByLCY/parabreak/layout"
	"github.com/ByLCY/parabreak/linebreak"
	"github.com/ByLCY/parabreak/renderer"
	canvasrenderer "github.com/ByLCY/parabreak/renderer/canvas"
	"github.com/ByLCY/parabreak/shape"
)

// config 汇总命令行参数。
type config struct {
	input      string
	output     string
	debug      string
	typesetter string
	algorithm  string
	print      bool
}

func main() {
	var cfg config
	flag.StringVar(&cfg.input, "in", "examples/demo.parabreak", "DSL 文件路径")
	flag.StringVar(&cfg.output, "out", "output/demo.pdf", "PDF 输出路径，为空时不生成 PDF")
	flag.StringVar(&cfg.debug, "debug", "", "布局调试 JSON 输出路径（包含断行统计）")
	flag.StringVar(&cfg.typesetter, "typesetter", "canvas", "测量后端：canvas | gotext | mono")
	flag.StringVar(&cfg.algorithm, "algorithm", "", "覆盖文档中的断行算法：greedy | optimal")
	flag.BoolVar(&cfg.print, "print", false, "在标准输出打印每行的断行结果")
	guides := flag.Bool("guides", false, "在 PDF 中绘制每行的宽度预算")
	verbose := flag.Bool("v", false, "输出断行调试日志")
	flag.Parse()

	if *verbose {
		linebreak.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	r := canvasrenderer.NewRendererWithOptions(canvasrenderer.Options{
		BaseDir: filepath.Dir(cfg.input),
		Guides:  *guides,
	})
	if err := run(cfg, r, os.Stdout); err != nil {
		log.Fatalf("生成失败: %v", err)
	}
	if cfg.output != "" {
		fmt.Printf("已生成 PDF：%s\n", cfg.output)
	}
}

// run 串联解析、布局与渲染。
func run(cfg config, r renderer.Renderer, stdout io.Writer) error {
	if r == nil {
		return fmt.Errorf("renderer 不能为空")
	}
	file, err := os.Open(cfg.input)
	if err != nil {
		return fmt.Errorf("无法打开 DSL 文件 %s: %w", cfg.input, err)
	}
	defer file.Close()

	doc, err := dsl.Parse(file)
	if err != nil {
		return fmt.Errorf("解析 DSL 失败: %w", err)
	}

	ts, err := selectTypesetter(cfg.typesetter, r, filepath.Dir(cfg.input))
	if err != nil {
		return err
	}
	opts := layout.BuildOptions{
		Typesetter: ts,
		Debug:      layout.DebugOptions{Paragraphs: cfg.debug != ""},
	}
	if cfg.algorithm != "" {
		s, err := linebreak.ParseStrategy(cfg.algorithm)
		if err != nil {
			return fmt.Errorf("参数 -algorithm: %w", err)
		}
		opts.Strategy = &s
	}

	result, err := layout.Build(doc, opts)
	if err != nil {
		return fmt.Errorf("布局计算失败: %w", err)
	}

	if cfg.debug != "" {
		if err := layout.WriteDebugJSON(result, cfg.debug); err != nil {
			return fmt.Errorf("输出调试 JSON 失败: %w", err)
		}
	}
	if cfg.print {
		printLines(stdout, result)
	}
	if cfg.output == "" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.output), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	pdfBytes, err := r.Render(result)
	if err != nil {
		return fmt.Errorf("渲染 PDF 失败: %w", err)
	}
	if err := os.WriteFile(cfg.output, pdfBytes, 0o644); err != nil {
		return fmt.Errorf("写入 PDF 文件失败: %w", err)
	}
	return nil
}

// selectTypesetter 按名称选择测量后端；canvas 直接复用渲染器。
func selectTypesetter(name string, r renderer.Renderer, baseDir string) (layout.Typesetter, error) {
	switch name {
	case "", "canvas":
		ts, ok := r.(layout.Typesetter)
		if !ok {
			return nil, fmt.Errorf("renderer 未实现排版接口")
		}
		return ts, nil
	case "gotext":
		return shape.NewGoText(baseDir), nil
	case "mono":
		return shape.MonoTypesetter{}, nil
	default:
		return nil, fmt.Errorf("未知的测量后端 %q（可选 canvas、gotext、mono）", name)
	}
}

func printLines(w io.Writer, result *layout.Result) {
	for pi, page := range result.Pages {
		for bi, box := range page.Paragraphs {
			fmt.Fprintf(w, "page %d paragraph %d (%s", pi+1, bi+1, box.Strategy)
			if box.Continued {
				fmt.Fprint(w, ", continued")
			}
			fmt.Fprintln(w, ")")
			for _, ln := range box.Lines {
				fmt.Fprintf(w, "  [%d,%d) %.2f/%.2fmm %q\n", ln.Start, ln.End, ln.Width, ln.Budget, ln.Content)
			}
		}
	}
}
