package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"k8s.io/klog"

	"github.com/dockerize/python-to-image/pkg/api"
	"github.com/dockerize/python-to-image/pkg/api/validation"
	"github.com/dockerize/python-to-image/pkg/build"
	"github.com/dockerize/python-to-image/pkg/docker"
	"github.com/dockerize/python-to-image/pkg/dockerfile"
	"github.com/dockerize/python-to-image/pkg/errors"
	"github.com/dockerize/python-to-image/pkg/python"
	"github.com/dockerize/python-to-image/pkg/registry"
	"github.com/dockerize/python-to-image/pkg/run"
	"github.com/dockerize/python-to-image/pkg/util"
	utillog "github.com/dockerize/python-to-image/pkg/util/log"
	"github.com/dockerize/python-to-image/pkg/version"
)

// glog is a placeholder until the builders pass an output stream down
// client facing libraries should not be using glog
var glog = utillog.StderrLog

func newCmdVersion() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Display version",
		Long:  "Display version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("p2i %v\n", version.Get())
		},
	}
}

func newCmdBuild(cfg *api.Config) *cobra.Command {
	buildCmd := &cobra.Command{
		Use:   "build <script>",
		Short: "Build an image from a Python script",
		Long:  "Scan a Python script for third-party imports, generate a Dockerfile and build a Docker image from it.",
		Example: `
# Build an image from a script, tagged with the script's file name
$ p2i build app.py

# Build with an explicit tag and run the result
$ p2i build app.py --tag my-app --run
`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) == 0 {
				cmd.Help()
				os.Exit(1)
			}
			completeConfig(cfg, args[0], nil)
			validateConfig(cfg, cmd)
			executePipeline(cfg)
		},
	}

	addCommonFlags(buildCmd, cfg)
	buildCmd.Flags().BoolVar(&(cfg.RunImage), "run", false, "Run resulting image as part of invocation of this command")
	return buildCmd
}

func newCmdGenerate(cfg *api.Config) *cobra.Command {
	generateCmd := &cobra.Command{
		Use:   "generate <script>",
		Short: "Generate a Dockerfile for a Python script without building it",
		Long: "Scan a Python script for third-party imports and write the resulting Dockerfile " +
			"next to the script. No Docker daemon is required.",
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) == 0 {
				cmd.Help()
				os.Exit(1)
			}
			completeConfig(cfg, args[0], nil)
			validateConfig(cfg, cmd)

			builder, err := build.New(cfg)
			checkErr(err)
			result, err := builder.Generate(cfg)
			checkErr(err)
			glog.V(0).Infof("Dockerfile generated at %s (dependencies: %v)", result.DockerfilePath, result.Dependencies)
		},
	}

	addCommonFlags(generateCmd, cfg)
	return generateCmd
}

func newCmdTemplate() *cobra.Command {
	return &cobra.Command{
		Use:   "template",
		Short: "Print the embedded default Dockerfile template",
		Long: "Print the embedded default Dockerfile template to standard output, " +
			"as a starting point for a custom template pointed to by " + dockerfile.TemplateEnvVar + ".",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Print(dockerfile.DefaultTemplate)
		},
	}
}

func newCmdGenBashCompletion(root *cobra.Command) *cobra.Command {
	return &cobra.Command{
		Use:   "genbashcompletion",
		Short: "Generate Bash completion for the p2i command",
		Long:  "Generate Bash completion for the p2i command into standard output",
		Run: func(cmd *cobra.Command, args []string) {
			root.GenBashCompletion(os.Stdout)
		},
	}
}

// addCommonFlags adds the flags shared by the root, build and generate
// commands.
func addCommonFlags(c *cobra.Command, cfg *api.Config) {
	c.Flags().BoolVarP(&(cfg.Quiet), "quiet", "q", false,
		"Operate quietly. Suppress all non-error output.")
	c.Flags().StringVar(&(cfg.PythonVersion), "python-version", "3.10",
		"Specify the python base image version for the default template")
	c.Flags().StringVarP(&(cfg.Tag), "tag", "t", "",
		"Specify the image name (default: the script's file name)")
	c.Flags().StringVar(&(cfg.Interpreter), "interpreter", python.DefaultInterpreter,
		"Specify the local interpreter used to enumerate standard-library modules")
	c.Flags().StringVar(&(cfg.RegistryURL), "registry", registry.DefaultURL,
		"Specify the base URL of the package index used for existence checks")
	c.Flags().Var(&(cfg.OnNetworkFailure), "on-network-failure",
		"Specify how a failed package index lookup is treated (absent, present or abort)")
	c.Flags().StringVar(&(cfg.MappingsPath), "mappings", "",
		"Specify the path to the import-mappings configuration file")
	c.Flags().VarP(&(cfg.Environment), "env", "e",
		"Specify an single environment variable in NAME=VALUE format to pass to the container")
	c.Flags().StringVarP(&(cfg.EnvironmentFile), "environment-file", "E", "",
		"Specify the path to the file with environment")
}

// completeConfig fills in the parts of the configuration derived from the
// positional arguments.
func completeConfig(cfg *api.Config, script string, scriptArgs []string) {
	cfg.ScriptPath = script
	cfg.ScriptArgs = scriptArgs
	if cfg.OnNetworkFailure == "" {
		cfg.OnNetworkFailure = api.DefaultNetworkFailurePolicy
	}
	if len(cfg.Tag) == 0 {
		cfg.Tag = build.DefaultTag(cfg.ScriptPath)
	}

	if len(cfg.EnvironmentFile) > 0 {
		result, err := util.ReadEnvironmentFile(cfg.EnvironmentFile)
		if err != nil {
			glog.Warningf("Unable to read environment file %q: %v", cfg.EnvironmentFile, err)
		} else {
			for name, value := range result {
				cfg.Environment = append(cfg.Environment, api.EnvironmentSpec{Name: name, Value: value})
			}
		}
	}
}

func validateConfig(cfg *api.Config, cmd *cobra.Command) {
	if errs := validation.ValidateConfig(cfg); len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", e)
		}
		fmt.Println()
		cmd.Help()
		os.Exit(1)
	}
}

// executePipeline runs the build pipeline and, when configured, the
// resulting image.
func executePipeline(cfg *api.Config) {
	glog.V(2).Infof("\n%s\n", cfg.PrintObj())

	err := docker.CheckReachable(cfg)
	if err != nil {
		glog.Fatal(err)
	}

	builder, err := build.New(cfg)
	checkErr(err)
	result, err := builder.Build(cfg)
	checkErr(err)

	for _, message := range result.Messages {
		glog.V(1).Infof(message)
	}

	if cfg.RunImage {
		runner, err := run.New(cfg)
		checkErr(err)
		err = runner.Run(cfg)
		checkErr(err)
	}
}

// setupLogging makes --loglevel reflect in klog's -v flag
func setupLogging(flags *pflag.FlagSet) {
	klog.InitFlags(flag.CommandLine)

	from := flag.CommandLine
	if fflag := from.Lookup("v"); fflag != nil {
		level := fflag.Value.(*klog.Level)
		loglevelPtr := (*int32)(level)
		flags.Int32Var(loglevelPtr, "loglevel", 0, "Set the level of log output (0-5)")
	}

	// klog can only redirect output to files or stderr; stderr it is
	flag.CommandLine.Set("logtostderr", "true")
}

func checkErr(err error) {
	if err == nil {
		return
	}
	if e, ok := err.(errors.Error); ok {
		glog.Errorf("An error occurred: %v", e)
		glog.Errorf("Suggested solution: %v", e.Suggestion)
		if e.Details != nil {
			glog.V(1).Infof("Details: %v", e.Details)
		}
		os.Exit(e.ErrorCode)
	}
	if e, ok := err.(errors.ContainerError); ok {
		glog.Errorf("An error occurred: %v", e)
		glog.Errorf("Suggested solution: %v", e.Suggestion)
		os.Exit(e.ErrorCode)
	}
	glog.Errorf("An error occurred: %v", err)
	os.Exit(1)
}

func main() {
	// Without this fake command line parse, klog complains that its flags
	// have not been interpreted
	flag.CommandLine.Parse([]string{})

	cfg := &api.Config{OnNetworkFailure: api.DefaultNetworkFailurePolicy}
	p2iCmd := &cobra.Command{
		Use: "p2i <script> [args...]",
		Long: "Python-to-image (P2I) is a tool for packaging a Python script as a docker image.\n\n" +
			"A command line interface that detects the script's installable dependencies,\n" +
			"generates a Dockerfile, builds an image and runs it, forwarding any trailing\n" +
			"arguments to the container. Use -- before arguments that look like flags.",
		Example: `
# Build and run a script, forwarding two arguments to it
$ p2i app.py -- --input data.csv
`,
		Args: cobra.ArbitraryArgs,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) == 0 {
				cmd.Help()
				os.Exit(1)
			}
			cfg.RunImage = true
			completeConfig(cfg, args[0], args[1:])
			validateConfig(cfg, cmd)
			executePipeline(cfg)
		},
	}
	cfg.DockerConfig = docker.GetDefaultDockerConfig()
	p2iCmd.PersistentFlags().StringVarP(&(cfg.DockerConfig.Endpoint), "url", "U", cfg.DockerConfig.Endpoint, "Set the url of the docker socket to use")
	p2iCmd.PersistentFlags().StringVar(&(cfg.DockerConfig.CertFile), "cert", cfg.DockerConfig.CertFile, "Set the path of the docker TLS certificate file")
	p2iCmd.PersistentFlags().StringVar(&(cfg.DockerConfig.KeyFile), "key", cfg.DockerConfig.KeyFile, "Set the path of the docker TLS key file")
	p2iCmd.PersistentFlags().StringVar(&(cfg.DockerConfig.CAFile), "ca", cfg.DockerConfig.CAFile, "Set the path of the docker TLS ca file")
	p2iCmd.PersistentFlags().BoolVar(&(cfg.DockerConfig.UseTLS), "tls", cfg.DockerConfig.UseTLS, "Use TLS to connect to docker; implied by --tlsverify")
	p2iCmd.PersistentFlags().BoolVar(&(cfg.DockerConfig.TLSVerify), "tlsverify", cfg.DockerConfig.TLSVerify, "Use TLS to connect to docker and verify the remote")
	addCommonFlags(p2iCmd, cfg)
	p2iCmd.AddCommand(newCmdVersion())
	p2iCmd.AddCommand(newCmdBuild(cfg))
	p2iCmd.AddCommand(newCmdGenerate(cfg))
	p2iCmd.AddCommand(newCmdTemplate())
	setupLogging(p2iCmd.PersistentFlags())

	p2iCmd.AddCommand(newCmdGenBashCompletion(p2iCmd))

	err := p2iCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
