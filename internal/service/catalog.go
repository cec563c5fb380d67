package service

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed catalog/movies.yaml
var defaultCatalog []byte

// Fixture 片库中的一条电影
type Fixture struct {
	Title    string   `yaml:"title" validate:"required"`
	Director string   `yaml:"director"`
	Year     int      `yaml:"year" validate:"gte=0"`
	Synopsis string   `yaml:"synopsis"`
	Genres   []string `yaml:"genres"`
}

type catalogFile struct {
	Movies []Fixture `yaml:"movies"`
}

// DefaultCatalog 内置片库
func DefaultCatalog() ([]Fixture, error) {
	return LoadCatalog(bytes.NewReader(defaultCatalog))
}

// LoadCatalog 从 YAML 解析片库
func LoadCatalog(r io.Reader) ([]Fixture, error) {
	var file catalogFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: 片库解析失败: %v", ErrValidation, err)
	}
	return file.Movies, nil
}

// LoadCatalogFile 读取片库文件，path 为空时使用内置片库
func LoadCatalogFile(path string) ([]Fixture, error) {
	if path == "" {
		return DefaultCatalog()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("打开片库文件失败: %w", err)
	}
	defer f.Close()
	return LoadCatalog(f)
}
