// Command contentgrid はNotionデータベースを読み取るコンテンツグリッドAPIを起動する。
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/hitoshi/contentgrid/internal/app"
)

func main() {
	if err := app.Execute(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
