package main

import (
	"os"

	"github.com/yungbote/gamehub-backend/internal/app"
)

func main() {
	os.Exit(app.Main(app.ServiceAssets))
}
