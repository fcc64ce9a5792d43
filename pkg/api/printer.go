package api

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// PrintObj returns a tab-separated dump of the configuration, used for
// verbose logging before a run starts.
func (c *Config) PrintObj() string {
	out, err := tabbedString(func(out io.Writer) error {
		fmt.Fprintf(out, "Script:\t%s\n", c.ScriptPath)
		if len(c.ScriptArgs) > 0 {
			fmt.Fprintf(out, "Script Args:\t%s\n", strings.Join(c.ScriptArgs, " "))
		}
		fmt.Fprintf(out, "Output Image Tag:\t%s\n", c.Tag)
		fmt.Fprintf(out, "Python Version:\t%s\n", c.PythonVersion)
		fmt.Fprintf(out, "Interpreter:\t%s\n", c.Interpreter)
		fmt.Fprintf(out, "Package Index:\t%s\n", c.RegistryURL)
		fmt.Fprintf(out, "On Network Failure:\t%s\n", c.OnNetworkFailure)
		if len(c.MappingsPath) > 0 {
			fmt.Fprintf(out, "Import Mappings File:\t%s\n", c.MappingsPath)
		}
		printEnv(out, c.Environment)
		if len(c.EnvironmentFile) > 0 {
			fmt.Fprintf(out, "Environment File:\t%s\n", c.EnvironmentFile)
		}
		fmt.Fprintf(out, "Run Image:\t%s\n", printBool(c.RunImage))
		fmt.Fprintf(out, "Quiet:\t%s\n", printBool(c.Quiet))
		if c.DockerConfig != nil {
			fmt.Fprintf(out, "Docker Endpoint:\t%s\n", c.DockerConfig.Endpoint)
		}
		return nil
	})
	if err != nil {
		fmt.Printf("ERROR: %v", err)
	}
	return out
}

func printEnv(out io.Writer, env EnvironmentList) {
	if len(env) == 0 {
		return
	}
	result := []string{}
	for _, e := range env {
		result = append(result, fmt.Sprintf("%s=%s", e.Name, e.Value))
	}
	fmt.Fprintf(out, "Environment:\t%s\n", strings.Join(result, ","))
}

func printBool(b bool) string {
	if b {
		return "\033[1menabled\033[0m"
	}
	return "disabled"
}

func tabbedString(f func(io.Writer) error) (string, error) {
	out := new(tabwriter.Writer)
	buf := &bytes.Buffer{}
	out.Init(buf, 0, 8, 1, '\t', 0)

	err := f(out)
	if err != nil {
		return "", err
	}

	out.Flush()
	return buf.String(), nil
}
