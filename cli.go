package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ByLCY/covergen/binding"
	"github.com/ByLCY/covergen/cover"
	"github.com/ByLCY/covergen/fonts"
	"github.com/ByLCY/covergen/layout"
)

var (
	version = "dev"     // set via -ldflags "-X main.version=..."
	commit  = "none"    // git commit SHA
	date    = "unknown" // build timestamp
)

type options struct {
	template    string
	font        string
	output      string
	title       string
	author      string
	publisher   string
	art         string
	config      string
	data        string
	wrap        string
	proof       bool
	printLayout bool
	verbose     bool
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var o options
	cmd := &cobra.Command{
		Use:   "covergen",
		Short: "Compose a book cover from a template, cover art and text",
		Long: `covergen layers cover art onto a cover template, renders the title with
automatic line wrapping, a stacked drop shadow and a vertical gradient, adds the
author and publisher beneath it, and writes a PNG or JPEG chosen by the output
file extension.`,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return o.validate()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd.Context(), stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetVersionTemplate(fmt.Sprintf("covergen %s\ncommit: %s\nbuilt: %s\n", version, commit, date))

	f := cmd.Flags()
	f.StringVarP(&o.template, "cover-template", "c", "", "cover template image (800x1280 by default)")
	f.StringVarP(&o.font, "font", "f", "", "font file, or embed:go-regular / embed:go-bold")
	f.StringVarP(&o.output, "output", "o", "", "output file; .jpg/.jpeg writes JPEG, anything else PNG")
	f.StringVarP(&o.title, "title", "t", "", "title text")
	f.StringVarP(&o.author, "author", "a", "", "author text")
	f.StringVarP(&o.publisher, "publisher", "p", "", "publisher text")
	f.StringVarP(&o.art, "cover-art", "i", "", "cover art image (700x525 by default)")
	f.StringVar(&o.config, "config", "", "TOML layout configuration")
	f.StringVar(&o.data, "data", "", "JSON data for ${path} placeholders in the text flags")
	f.StringVar(&o.wrap, "wrap", "", "title wrap mode: estimate or measure (default from config)")
	f.BoolVar(&o.proof, "proof", false, "write a vector PDF proof of the layout instead of an image")
	f.BoolVar(&o.printLayout, "print-layout", false, "print the computed layout as JSON on stdout")
	f.BoolVarP(&o.verbose, "verbose", "v", false, "enable verbose logging")

	for _, name := range []string{"cover-template", "font", "output", "title", "author", "publisher", "cover-art"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

// validate 在做任何图像处理之前检查输入文件是否存在。
func (o *options) validate() error {
	inputs := []struct{ flag, path string }{
		{"cover-template", o.template},
		{"cover-art", o.art},
		{"config", o.config},
		{"data", o.data},
	}
	if !fonts.IsEmbedded(o.font) {
		inputs = append(inputs, struct{ flag, path string }{"font", o.font})
	}
	for _, in := range inputs {
		if in.path == "" {
			continue
		}
		if _, err := os.Stat(in.path); err != nil {
			return &cover.MissingInputError{Flag: in.flag, Path: in.path, Err: err}
		}
	}
	if _, ok := layout.ParseWrapMode(o.wrap); !ok {
		return fmt.Errorf("--wrap 只能是 estimate 或 measure，实际为 %q", o.wrap)
	}
	return nil
}

func (o *options) run(ctx context.Context, stdout, stderr io.Writer) error {
	level := log.InfoLevel
	if o.verbose {
		level = log.DebugLevel
	}
	logger := cover.NewLogger(stderr, level)
	ctx = cover.WithLogger(ctx, logger)

	cfg := cover.DefaultConfig()
	if o.config != "" {
		loaded, unknown, err := cover.LoadConfig(o.config)
		if err != nil {
			return err
		}
		for _, key := range unknown {
			logger.Warn("忽略未知的配置项", "key", key)
		}
		cfg = loaded
	}

	var data binding.Data
	if o.data != "" {
		var err error
		if data, err = binding.LoadFile(o.data); err != nil {
			return err
		}
	}

	opts := cover.Options{Config: cfg, Data: data, Proof: o.proof}
	if o.wrap != "" {
		opts.Wrap = layout.WrapMode(o.wrap)
	}
	out, err := cover.Compose(ctx, cover.Input{
		TemplatePath: o.template,
		ArtPath:      o.art,
		FontSrc:      o.font,
		OutputPath:   o.output,
		Texts:        cover.Texts{Title: o.title, Author: o.author, Publisher: o.publisher},
	}, opts)
	if err != nil {
		return err
	}

	if o.printLayout {
		if err := layout.WriteDebugJSON(out.Layout, stdout); err != nil {
			return fmt.Errorf("输出布局 JSON 失败: %w", err)
		}
	}
	if err := cover.WriteFile(o.output, out.Bytes); err != nil {
		return err
	}
	if !o.printLayout {
		printSuccess(stdout, "已生成 %s：%s", out.Format, o.output)
	}
	return nil
}
