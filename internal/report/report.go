// Package report 提供 classcomments 的输出能力。
// 当前实现支持 CSV 文件导出（主产物）、table 控制台格式和 JSON 格式。
package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"text/tabwriter"

	"classcomments/internal/model"
)

// OutputFileName 是批处理结果文件名。
const OutputFileName = "comments_by_class.csv"

// Header 是 CSV 表头。
var Header = []string{"file", "class", "line_comments", "block_comments", "comment_lines", "total_comments"}

// WriteCSV 把行写为 CSV，rows 需已按 (file, class) 排序。
func WriteCSV(writer io.Writer, rows []model.Row) error {
	csvWriter := csv.NewWriter(writer)

	if err := csvWriter.Write(Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range rows {
		record := []string{
			row.File,
			row.Class,
			strconv.FormatInt(row.LineComments, 10),
			strconv.FormatInt(row.BlockComments, 10),
			strconv.FormatInt(row.CommentLines, 10),
			strconv.FormatInt(row.TotalComments, 10),
		}
		if err := csvWriter.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// WriteCSVFile 将结果写入 directory/comments_by_class.csv 并返回文件路径。
// 内容先写入同目录临时文件，成功后再重命名，失败时目标路径不会出现半成品。
// 如果目录不存在会自动创建。
func WriteCSVFile(directory string, rows []model.Row) (string, error) {
	if directory == "" {
		directory = "."
	}
	if err := os.MkdirAll(directory, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	target := filepath.Join(directory, OutputFileName)
	if err := writeFileAtomic(target, func(writer io.Writer) error {
		return WriteCSV(writer, rows)
	}); err != nil {
		return "", err
	}
	return target, nil
}

// writeFileAtomic 通过临时文件 + rename 落盘。
func writeFileAtomic(target string, write func(io.Writer) error) (err error) {
	temp, err := os.CreateTemp(filepath.Dir(target), "."+filepath.Base(target)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tempPath := temp.Name()

	defer func() {
		if err != nil {
			_ = temp.Close()
			_ = os.Remove(tempPath)
		}
	}()

	if err = write(temp); err != nil {
		return err
	}
	if err = temp.Sync(); err != nil {
		return fmt.Errorf("sync output file: %w", err)
	}
	if err = temp.Close(); err != nil {
		return fmt.Errorf("close output file: %w", err)
	}
	if err = os.Chmod(tempPath, 0o644); err != nil {
		return fmt.Errorf("chmod output file: %w", err)
	}
	if err = os.Rename(tempPath, target); err != nil {
		return fmt.Errorf("write output file: %w", err)
	}
	return nil
}

// PrintTable 使用表格展示归属结果。
func PrintTable(writer io.Writer, rows []model.Row) error {
	tw := tabwriter.NewWriter(writer, 0, 4, 2, ' ', 0)

	if _, err := fmt.Fprintln(tw, "FILE\tCLASS\tLINE\tBLOCK\tLINES\tTOTAL"); err != nil {
		return err
	}
	for _, item := range rows {
		if _, err := fmt.Fprintf(
			tw,
			"%s\t%s\t%d\t%d\t%d\t%d\n",
			item.File,
			item.Class,
			item.LineComments,
			item.BlockComments,
			item.CommentLines,
			item.TotalComments,
		); err != nil {
			return err
		}
	}

	return tw.Flush()
}

// PrintSummary 展示批处理汇总与错误列表。
func PrintSummary(writer io.Writer, result model.AttributionResult) error {
	tw := tabwriter.NewWriter(writer, 0, 4, 2, ' ', 0)
	totals := result.Totals()

	if _, err := fmt.Fprintf(tw, "REPO ROOT\t%s\n\n", result.RepoRoot); err != nil {
		return err
	}

	if _, err := fmt.Fprintln(tw, "DECLARATIONS\tFILES\tMISSING\tROWS\tLINE\tBLOCK\tLINES\tTOTAL"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(
		tw,
		"%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\n",
		result.Declarations,
		result.ScannedFiles,
		result.MissingFiles,
		len(result.Rows),
		totals.LineComments,
		totals.BlockComments,
		totals.CommentLines,
		totals.TotalComments,
	); err != nil {
		return err
	}

	if len(result.Errors) > 0 {
		if _, err := fmt.Fprintln(tw, "\nERROR FILE\tMESSAGE"); err != nil {
			return err
		}
		for _, item := range result.Errors {
			if _, err := fmt.Fprintf(tw, "%s\t%s\n", item.Path, item.Error); err != nil {
				return err
			}
		}
	}

	return tw.Flush()
}

// marshalJSON 输出缩进 JSON，不转义 <file_level> 中的尖括号。
func marshalJSON(value any) ([]byte, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(value); err != nil {
		return nil, fmt.Errorf("marshal json: %w", err)
	}
	return buf.Bytes(), nil
}

// PrintJSON 把任意结果按易读 JSON 输出到 writer。
func PrintJSON(writer io.Writer, value any) error {
	content, err := marshalJSON(value)
	if err != nil {
		return err
	}

	if _, err := writer.Write(content); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}

// WriteJSONFile 将 JSON 结果导出到指定路径。
func WriteJSONFile(path string, value any) error {
	content, err := marshalJSON(value)
	if err != nil {
		return err
	}

	directory := filepath.Dir(path)
	if directory != "." && directory != "" {
		if mkErr := os.MkdirAll(directory, 0o755); mkErr != nil {
			return fmt.Errorf("create output directory: %w", mkErr)
		}
	}

	return writeFileAtomic(path, func(writer io.Writer) error {
		if _, err := writer.Write(content); err != nil {
			return fmt.Errorf("write json: %w", err)
		}
		return nil
	})
}
