// Command crmbridge bridges a chat platform's identity store and a remote
// CRM: it reconciles delegated OAuth credentials and performs delegated
// CRM actions.
package main

import (
	"github.com/custodia-labs/crmbridge/internal/adapters/driving/cli"
)

func main() {
	cli.Execute()
}
