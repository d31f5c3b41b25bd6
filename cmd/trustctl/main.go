// trustctl — офлайн-калькулятор дашборда: индекс доверия, представление
// и SVG графиков из файла снапшота без поднятия консоли.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
