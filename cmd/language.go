package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"classcomments/internal/languages"

	"github.com/spf13/cobra"
)

// newLanguageCmd 创建 language 子命令。
// 命令用于展示已注册的声明方言、对应文件后缀与声明关键字。
// 未注册后缀的文件按 Java 方言处理。
func newLanguageCmd(registry *languages.Registry) *cobra.Command {
	return &cobra.Command{
		Use:   "language",
		Short: "展示已注册方言、后缀及声明关键字",
		RunE: func(cmd *cobra.Command, _ []string) error {
			writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)

			if _, err := fmt.Fprintln(writer, "LANGUAGE\tEXTENSIONS\tKEYWORDS"); err != nil {
				return err
			}

			for _, item := range registry.Languages() {
				if _, err := fmt.Fprintf(
					writer,
					"%s\t%s\t%s\n",
					item.Name,
					strings.Join(item.Extensions, ", "),
					strings.Join(item.Keywords, ", "),
				); err != nil {
					return err
				}
			}

			return writer.Flush()
		},
	}
}
