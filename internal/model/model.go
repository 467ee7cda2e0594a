// Package model 提供核心数据模型
package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONMap 字符串键值对（存储为 jsonb）
type JSONMap map[string]string

// Value 实现 driver.Valuer 接口
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

// Scan 实现 sql.Scanner 接口
func (m *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		str, ok := value.(string)
		if !ok {
			return fmt.Errorf("failed to scan JSONMap: unsupported type %T", value)
		}
		bytes = []byte(str)
	}
	return json.Unmarshal(bytes, m)
}

// StringList 字符串列表（存储为 jsonb）
type StringList []string

// Value 实现 driver.Valuer 接口
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

// Scan 实现 sql.Scanner 接口
func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		str, ok := value.(string)
		if !ok {
			return fmt.Errorf("failed to scan StringList: unsupported type %T", value)
		}
		bytes = []byte(str)
	}
	return json.Unmarshal(bytes, l)
}

// ScoreMap 自定义评分映射表，键为评分值，值为 0-100 的得分（存储为 jsonb）
type ScoreMap map[string]float64

// Value 实现 driver.Valuer 接口
func (m ScoreMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

// Scan 实现 sql.Scanner 接口
func (m *ScoreMap) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		str, ok := value.(string)
		if !ok {
			return fmt.Errorf("failed to scan ScoreMap: unsupported type %T", value)
		}
		bytes = []byte(str)
	}
	return json.Unmarshal(bytes, m)
}
