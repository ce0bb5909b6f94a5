// Package templates 加载、校验并缓存 SVG 标签模板。
package templates

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"sort"
	"strings"

	"github.com/ByLCY/etiqueta/cache"
	"github.com/ByLCY/etiqueta/logging"
	"github.com/ByLCY/etiqueta/svgdoc"
)

var (
	// ErrInvalidPath 表示模板标识为空、带有 URL 协议或不是合法的相对路径。
	ErrInvalidPath = errors.New("templates: 模板路径无效")
	// ErrNotAllowed 表示模板不在允许列表中。
	ErrNotAllowed = errors.New("templates: 模板不在允许列表中")
	// ErrNotFound 表示模板文件不存在。
	ErrNotFound = errors.New("templates: 找不到模板")
	// ErrUnsafe 表示模板不是有效 SVG，或清理后为空。
	ErrUnsafe = errors.New("templates: 模板无效或被安全策略拦截")
)

// DefaultCacheSize 是模板文本缓存的默认容量。
const DefaultCacheSize = 40

var schemePattern = regexp.MustCompile(`^[A-Za-z]+://`)

// Options 配置模板仓库。
type Options struct {
	// Allowed 是允许加载的模板标识；为空表示不限制。
	Allowed []string
	// CacheSize 是已清理模板文本的缓存容量，0 使用 DefaultCacheSize。
	CacheSize int
}

// Store 从 fs.FS 读取模板，清理后按模板标识缓存。可并发使用。
type Store struct {
	fsys    fs.FS
	allowed []string
	allow   map[string]bool
	texts   *cache.LRU[string, string]
}

// NewStore 创建以 fsys 为根的模板仓库。
func NewStore(fsys fs.FS, opts Options) *Store {
	size := opts.CacheSize
	if size == 0 {
		size = DefaultCacheSize
	}
	s := &Store{
		fsys:  fsys,
		allow: map[string]bool{},
		texts: cache.New[string, string](size),
	}
	for _, id := range opts.Allowed {
		id = strings.TrimSpace(id)
		if id == "" || s.allow[id] {
			continue
		}
		s.allow[id] = true
		s.allowed = append(s.allowed, id)
	}
	sort.Strings(s.allowed)
	return s
}

// Allowed 返回允许列表的副本（已排序）。
func (s *Store) Allowed() []string {
	return append([]string(nil), s.allowed...)
}

// Cached 返回缓存中的模板数量。
func (s *Store) Cached() int { return s.texts.Len() }

// Load 返回模板 id 清理后的 SVG 文本。
func (s *Store) Load(id string) (string, error) {
	safe, err := safePath(id)
	if err != nil {
		return "", err
	}
	if len(s.allow) > 0 && !s.allow[safe] {
		return "", fmt.Errorf("%w: %s", ErrNotAllowed, safe)
	}
	if text, ok := s.texts.Get(safe); ok {
		return text, nil
	}

	raw, err := fs.ReadFile(s.fsys, safe)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, safe)
		}
		return "", fmt.Errorf("读取模板 %s 失败: %w", safe, err)
	}
	clean, err := svgdoc.Sanitize(string(raw))
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrUnsafe, safe, err)
	}
	if strings.TrimSpace(clean) == "" {
		return "", fmt.Errorf("%w: %s", ErrUnsafe, safe)
	}

	s.texts.Set(safe, clean)
	logging.Logger().Debug("模板已加载", "template", safe, "bytes", len(clean))
	return clean, nil
}

// safePath 拒绝空标识、URL 协议、data: 以及越出根目录的路径。
func safePath(id string) (string, error) {
	f := strings.TrimSpace(id)
	if f == "" {
		return "", fmt.Errorf("%w: 模板标识为空", ErrInvalidPath)
	}
	if schemePattern.MatchString(f) || strings.HasPrefix(strings.ToLower(f), "data:") {
		return "", fmt.Errorf("%w: %s", ErrInvalidPath, f)
	}
	if !fs.ValidPath(f) {
		return "", fmt.Errorf("%w: %s", ErrInvalidPath, f)
	}
	return f, nil
}

// Discover 列出 fsys 中所有小写 .svg 后缀的模板，结果可直接作为允许列表。
func Discover(fsys fs.FS) ([]string, error) {
	var ids []string
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != "." && strings.HasPrefix(d.Name(), ".") {
				return fs.SkipDir
			}
			return nil
		}
		if path.Ext(p) == ".svg" {
			ids = append(ids, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("扫描模板目录失败: %w", err)
	}
	sort.Strings(ids)
	return ids, nil
}
