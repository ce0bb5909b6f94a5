// Package config 定义组合引擎的可调参数：缓存容量、纸张、渲染选项与模板目录。
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/ByLCY/etiqueta/layout"
)

// Limits 是三个缓存的容量。
type Limits struct {
	TemplateCache  int `json:"templateCache"`
	RenderCache    int `json:"renderCache"`
	DimensionCache int `json:"dimensionCache"`
}

// Render 配置渲染管线。
type Render struct {
	TargetWidth int     `json:"targetWidth"` // 栅格图像素宽度
	LineHeight  float64 `json:"lineHeight"`  // 名称行高倍数
	Workers     int     `json:"workers"`     // 并发渲染的商品数
}

// Templates 配置模板来源。
type Templates struct {
	Dir     string   `json:"dir"`
	Allowed []string `json:"allowed"` // 为空时使用目录中扫描到的全部 .svg
}

// Fonts 可选地替换用于文字度量的字体文件。
type Fonts struct {
	Regular string `json:"regular"`
	Bold    string `json:"bold"`
}

// Config 是完整配置。
type Config struct {
	Limits    Limits       `json:"limits"`
	Paper     layout.Paper `json:"paper"`
	Render    Render       `json:"render"`
	Templates Templates    `json:"templates"`
	Fonts     Fonts        `json:"fonts"`
	// Palette 是列表着色用的色相表，只决定颜色序号的取值范围。
	Palette []int `json:"palette"`
}

// Default 返回默认配置。
func Default() Config {
	return Config{
		Limits: Limits{
			TemplateCache:  40,
			RenderCache:    250,
			DimensionCache: 400,
		},
		Paper: layout.LetterPaper(),
		Render: Render{
			TargetWidth: 2200,
			LineHeight:  1.10,
			Workers:     1,
		},
		Templates: Templates{Dir: "assets/templates"},
		Palette:   []int{210, 150, 35, 0, 270, 190, 95, 235, 25, 330},
	}
}

// Load 读取 JSON 配置文件并覆盖到默认值之上；path 为空时直接返回默认值。
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("读取配置文件 %s 失败: %w", path, err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("解析配置文件 %s 失败: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("配置文件 %s 无效: %w", path, err)
	}
	return cfg, nil
}

// Validate 检查配置取值，返回合并后的错误。
func (c Config) Validate() error {
	var errs []error
	if c.Limits.TemplateCache < 0 || c.Limits.RenderCache < 0 || c.Limits.DimensionCache < 0 {
		errs = append(errs, errors.New("缓存容量不能为负数"))
	}
	if c.Paper.Width <= 0 || c.Paper.Height <= 0 {
		errs = append(errs, errors.New("纸张尺寸必须为正数"))
	}
	if c.Paper.GridPad < 0 || c.Paper.GridGap < 0 || c.Paper.FullPad < 0 {
		errs = append(errs, errors.New("留白与间距不能为负数"))
	}
	if c.Paper.GridPad*2+c.Paper.GridGap >= c.Paper.Width || c.Paper.GridPad*2+c.Paper.GridGap >= c.Paper.Height {
		errs = append(errs, errors.New("网格留白超出纸张尺寸"))
	}
	if c.Paper.FullPad*2 >= c.Paper.Width || c.Paper.FullPad*2 >= c.Paper.Height {
		errs = append(errs, errors.New("整页留白超出纸张尺寸"))
	}
	if c.Render.TargetWidth <= 0 {
		errs = append(errs, errors.New("targetWidth 必须为正数"))
	}
	if c.Render.LineHeight <= 0 {
		errs = append(errs, errors.New("lineHeight 必须为正数"))
	}
	if c.Render.Workers < 1 {
		errs = append(errs, errors.New("workers 至少为 1"))
	}
	if len(c.Palette) == 0 {
		errs = append(errs, errors.New("palette 不能为空"))
	}
	return errors.Join(errs...)
}
