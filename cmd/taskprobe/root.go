// taskprobe pokes a task backend (hosted or the local stub) through the
// typed client, one operation per invocation. It replaces the pile of
// one-off scripts that used to live next to the frontend.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tidwall/gjson"

	"github.com/hubhiv/taskboard/client"
)

var rootCmd = &cobra.Command{
	Use:          "taskprobe",
	Short:        "Probe the HubHiv task API",
	SilenceUsage: true,
}

var pluckPath string

func init() {
	rootCmd.PersistentFlags().String("base-url", "http://localhost:8080", "API base URL")
	rootCmd.PersistentFlags().StringVar(&pluckPath, "pluck", "", "gjson path to extract from the response")
	_ = viper.BindPFlag("base_url", rootCmd.PersistentFlags().Lookup("base-url"))
	viper.SetEnvPrefix("taskboard")
	viper.AutomaticEnv()
}

func tokenPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".taskprobe-token"
	}
	return filepath.Join(home, ".taskprobe-token")
}

// newClient builds a client with any cached login token preloaded. A 401
// wipes the cache, same as the app clearing its stored credentials.
func newClient() *client.Client {
	sess := client.NewSession()
	if data, err := os.ReadFile(tokenPath()); err == nil {
		sess.SetToken(string(data))
	}
	sess.OnUnauthorized = func() {
		_ = os.Remove(tokenPath())
		fmt.Fprintln(os.Stderr, "token rejected (401); cached login cleared")
	}
	return client.New(viper.GetString("base_url"), sess)
}

// emit prints the result as JSON, or just the plucked path when --pluck is
// given.
func emit(v any) error {
	data, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if pluckPath != "" {
		fmt.Println(gjson.GetBytes(data, pluckPath).String())
		return nil
	}
	fmt.Println(string(data))
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
