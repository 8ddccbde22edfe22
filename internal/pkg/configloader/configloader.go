package configloader

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadConfig 读取 yaml 配置文件并反序列化到 v。
func LoadConfig(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("unmarshal config file %q: %w", path, err)
	}
	return nil
}
