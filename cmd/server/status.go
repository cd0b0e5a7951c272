package srvcmd

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	cfgpkg "github.com/flarebyte/baldrick-gitvault/internal/config"
	"github.com/flarebyte/baldrick-gitvault/internal/server"
	"github.com/spf13/cobra"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report whether the server is running",
	RunE: func(cmd *cobra.Command, args []string) error {
		pid, err := server.ReadPID(server.DefaultPIDPath())
		if err != nil {
			if os.IsNotExist(err) {
				fmt.Println("status: stopped")
				return nil
			}
			return err
		}
		cfg, err := cfgpkg.Load()
		if err != nil {
			return err
		}
		addr := cfg.Server.Addr
		if addr == "" {
			addr = server.DefaultAddr
		}
		client := &http.Client{Timeout: 3 * time.Second}
		resp, err := client.Get("http://" + addr + "/v1/status")
		if err != nil {
			fmt.Printf("status: stale (pid %d recorded, %s unreachable)\n", pid, addr)
			return nil
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		fmt.Printf("status: running (pid %d)\n%s", pid, body)
		return nil
	},
}
