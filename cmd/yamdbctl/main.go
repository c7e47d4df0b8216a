// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command yamdbctl runs administrative tasks against the YaMDb database:
// schema migrations, CSV fixture import, and administrator bootstrap.
package main

import "github.com/taibuivan/yamdb/cmd/yamdbctl/commands"

func main() {
	commands.Execute()
}
