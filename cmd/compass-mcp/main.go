// compass-mcp: Recovery Compass演示数据的MCP服务器
//
// 面向AI代理客户端暴露康复旅程与合规记录的只读工具集，
// 数据为静态演示样本，不接入主服务的真实合规数据。
//
// 用法:
//
//	compass-mcp    # 以stdio传输启动MCP服务器
package main

import (
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"compass-service/mcpserver"
)

func main() {
	repo := mcpserver.NewMockRepository()
	s := mcpserver.New(repo)

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
