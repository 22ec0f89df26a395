/* Copyright 2025 Catatan Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */


package main

import (
	"bytes"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/pkg/errors"
)

var testServerBinary string
var testCLIBinary string

func init() {
	tmpDir := os.TempDir()
	testServerBinary = fmt.Sprintf("%s/catatan-test-server", tmpDir)
	testCLIBinary = fmt.Sprintf("%s/catatan-test-cli", tmpDir)

	builds := map[string]string{
		testServerBinary: "../server",
		testCLIBinary:    "../cli",
	}
	for out, pkg := range builds {
		cmd := exec.Command("go", "build", "-o", out, pkg)
		if b, err := cmd.CombinedOutput(); err != nil {
			panic(fmt.Sprintf("failed to build %s: %v\n%s", pkg, err, b))
		}
	}
}

// serverProcess is a running server binary
type serverProcess struct {
	cmd    *exec.Cmd
	url    string
	output *bytes.Buffer
}

// startServer starts the server binary on the port with the given
// environment and waits until it answers the health check
func startServer(t *testing.T, port string, env ...string) *serverProcess {
	var output bytes.Buffer

	cmd := exec.Command(testServerBinary, "start", "--port", port)
	cmd.Env = append(os.Environ(), "WebURL=http://localhost:"+port)
	cmd.Env = append(cmd.Env, env...)
	cmd.Stdout = &output
	cmd.Stderr = &output

	if err := cmd.Start(); err != nil {
		t.Fatalf("failed to start server: %v", err)
	}

	p := &serverProcess{
		cmd:    cmd,
		url:    "http://localhost:" + port,
		output: &output,
	}
	t.Cleanup(p.stop)

	if err := p.waitHealthy(10 * time.Second); err != nil {
		t.Fatalf("%v\n%s", err, output.String())
	}

	return p
}

func (p *serverProcess) waitHealthy(timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		res, err := http.Get(p.url + "/health")
		if err == nil {
			res.Body.Close()
			if res.StatusCode == http.StatusOK {
				return nil
			}
		}

		time.Sleep(100 * time.Millisecond)
	}

	return errors.Errorf("server at %s did not become healthy", p.url)
}

func (p *serverProcess) stop() {
	if p.cmd.Process != nil {
		p.cmd.Process.Kill()
		p.cmd.Wait()
	}
}
