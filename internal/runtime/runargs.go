package runtime

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/go-connections/nat"
	"github.com/docker/go-units"

	derrors "dockexec/internal/errors"
)

// applyRunArgs maps raw `docker run` style arguments onto the SDK container
// and host configuration. Only flags with a config equivalent are accepted;
// an unrecognized flag is a task configuration error, surfaced before any
// container is created.
func applyRunArgs(args []string, cfg *container.Config, hostCfg *container.HostConfig) error {
	for i := 0; i < len(args); i++ {
		name, inlineValue, hasInline := strings.Cut(args[i], "=")

		value := func() (string, error) {
			if hasInline {
				return inlineValue, nil
			}
			i++
			if i >= len(args) {
				return "", runArgError(fmt.Sprintf("flag %s requires a value", name))
			}
			return args[i], nil
		}

		switch name {
		case "-e", "--env":
			v, err := value()
			if err != nil {
				return err
			}
			cfg.Env = append(cfg.Env, v)

		case "-w", "--workdir":
			v, err := value()
			if err != nil {
				return err
			}
			cfg.WorkingDir = v

		case "--net", "--network":
			v, err := value()
			if err != nil {
				return err
			}
			hostCfg.NetworkMode = container.NetworkMode(v)

		case "-v", "--volume":
			v, err := value()
			if err != nil {
				return err
			}
			hostCfg.Binds = append(hostCfg.Binds, v)

		case "--label":
			v, err := value()
			if err != nil {
				return err
			}
			key, labelValue, _ := strings.Cut(v, "=")
			if cfg.Labels == nil {
				cfg.Labels = make(map[string]string)
			}
			cfg.Labels[key] = labelValue

		case "-h", "--hostname":
			v, err := value()
			if err != nil {
				return err
			}
			cfg.Hostname = v

		case "-u", "--user":
			v, err := value()
			if err != nil {
				return err
			}
			cfg.User = v

		case "--privileged":
			hostCfg.Privileged = true

		case "--read-only":
			hostCfg.ReadonlyRootfs = true

		case "-m", "--memory":
			v, err := value()
			if err != nil {
				return err
			}
			limit, err := units.RAMInBytes(v)
			if err != nil {
				return runArgError(fmt.Sprintf("invalid memory limit %q: %v", v, err))
			}
			hostCfg.Memory = limit

		case "--cpus":
			v, err := value()
			if err != nil {
				return err
			}
			cpus, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return runArgError(fmt.Sprintf("invalid cpu count %q: %v", v, err))
			}
			hostCfg.NanoCPUs = int64(cpus * 1e9)

		case "-p", "--publish":
			v, err := value()
			if err != nil {
				return err
			}
			mappings, err := nat.ParsePortSpec(v)
			if err != nil {
				return runArgError(fmt.Sprintf("invalid port spec %q: %v", v, err))
			}
			if cfg.ExposedPorts == nil {
				cfg.ExposedPorts = make(nat.PortSet)
			}
			if hostCfg.PortBindings == nil {
				hostCfg.PortBindings = make(nat.PortMap)
			}
			for _, m := range mappings {
				cfg.ExposedPorts[m.Port] = struct{}{}
				hostCfg.PortBindings[m.Port] = append(hostCfg.PortBindings[m.Port], m.Binding)
			}

		default:
			return runArgError(fmt.Sprintf("unsupported docker run argument %q", args[i]))
		}
	}

	return nil
}

func runArgError(cause string) error {
	return fmt.Errorf("%w: %s", derrors.ErrConfigInvalid, cause)
}
