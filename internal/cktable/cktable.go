// Package cktable 读取外部度量工具输出的类表（class.csv），
// 得到权威的 (file, class) 声明清单。
package cktable

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"classcomments/internal/model"
)

// ErrMissingColumn 表示表头缺少 file 或 class 列。
var ErrMissingColumn = errors.New("missing required column")

const (
	fileColumn  = "file"
	classColumn = "class"
)

// missingValues 中的单元格视为缺失值，与常见数据分析工具读取 CSV 时的默认缺失值集合一致。
var missingValues = map[string]struct{}{
	"": {}, "#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {}, "-NaN": {}, "-nan": {},
	"1.#IND": {}, "1.#QNAN": {}, "<NA>": {}, "N/A": {}, "NA": {}, "NULL": {}, "NaN": {}, "None": {},
	"n/a": {}, "nan": {}, "null": {},
}

// Table 是解析结果。
type Table struct {
	Declarations []model.Declaration
	// Skipped 统计 file/class 缺失而被跳过的数据行。
	Skipped int
}

// ReadFile 从磁盘读取类表。
func ReadFile(path string) (Table, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Table{}, fmt.Errorf("read class table: %w", err)
	}
	return Read(bytes.NewReader(content))
}

// Read 解析类表。
// 表头名称会去除首尾空白并转小写；非法 UTF-8 字节被直接丢弃；多余列被忽略。
func Read(reader io.Reader) (Table, error) {
	raw, err := io.ReadAll(reader)
	if err != nil {
		return Table{}, fmt.Errorf("read class table: %w", err)
	}
	text := strings.ToValidUTF8(string(raw), "")
	text = strings.TrimPrefix(text, "\ufeff")

	csvReader := csv.NewReader(strings.NewReader(text))
	csvReader.FieldsPerRecord = -1
	csvReader.LazyQuotes = true

	header, err := csvReader.Read()
	if errors.Is(err, io.EOF) {
		return Table{}, fmt.Errorf("%w: empty class table", ErrMissingColumn)
	}
	if err != nil {
		return Table{}, fmt.Errorf("parse class table header: %w", err)
	}

	fileIdx, classIdx := -1, -1
	for idx, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case fileColumn:
			if fileIdx < 0 {
				fileIdx = idx
			}
		case classColumn:
			if classIdx < 0 {
				classIdx = idx
			}
		}
	}
	if fileIdx < 0 {
		return Table{}, fmt.Errorf("%w: %s", ErrMissingColumn, fileColumn)
	}
	if classIdx < 0 {
		return Table{}, fmt.Errorf("%w: %s", ErrMissingColumn, classColumn)
	}

	var table Table
	for {
		record, readErr := csvReader.Read()
		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			return table, fmt.Errorf("parse class table: %w", readErr)
		}

		file, fileOK := field(record, fileIdx)
		class, classOK := field(record, classIdx)
		if !fileOK || !classOK {
			table.Skipped++
			continue
		}

		table.Declarations = append(table.Declarations, model.Declaration{File: file, Class: class})
	}

	return table, nil
}

// field 取出单元格，越界或缺失值返回 false。
func field(record []string, idx int) (string, bool) {
	if idx >= len(record) {
		return "", false
	}
	value := record[idx]
	if _, missing := missingValues[value]; missing {
		return "", false
	}
	return value, true
}
