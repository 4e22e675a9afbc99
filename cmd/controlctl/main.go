// Command controlctl mints a PIN-derived token and posts an authorized
// stop or restart command to a running control server.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"home_temperature_control/internal/security"
)

func main() {
	host := flag.String("host", "http://localhost:8000", "base URL of the control server")
	pin := flag.String("pin", os.Getenv("CONTROL_PIN"), "control PIN (defaults to $CONTROL_PIN)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] stop|restart\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	action := flag.Arg(0)
	if action != "stop" && action != "restart" {
		flag.Usage()
		os.Exit(2)
	}
	if *pin == "" {
		fmt.Fprintln(os.Stderr, "error: no control PIN; pass -pin or set CONTROL_PIN")
		os.Exit(1)
	}

	if err := sendCommand(*host, *pin, action); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func sendCommand(host, pin, action string) error {
	timestamp := strconv.FormatInt(time.Now().Unix(), 10)
	token, ok := security.New(pin, nil, nil).Generate(timestamp)
	if !ok {
		return fmt.Errorf("token generation failed")
	}

	body, err := json.Marshal(map[string]string{
		"timestamp": timestamp,
		"token":     token,
	})
	if err != nil {
		return err
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Post(host+"/control/"+action, "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	reply, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned %s: %s", resp.Status, bytes.TrimSpace(reply))
	}
	fmt.Printf("%s accepted: %s\n", action, bytes.TrimSpace(reply))
	return nil
}
