// main.go 是 classcomments 的程序入口。
// 该文件负责注入版本号、接管中断信号并执行 Cobra 根命令，
// 让业务逻辑保持在 cmd/internal 目录中，便于测试和扩展。
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"classcomments/cmd"
)

// version 默认值为 dev。
// 发布时可以通过 -ldflags "-X main.version=vX.Y.Z" 覆盖该值。
var version = "dev"

func main() {
	// Ctrl+C 会取消尚未开始的文件任务，已写出的结果文件不受影响。
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cmd.Execute(ctx, version)
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "classcomments error: %v\n", err)
		os.Exit(1)
	}
}
