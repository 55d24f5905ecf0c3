package config

import (
	"fmt"
	"strconv"
	"time"
)

// Environment keys recognised by ApplyEnv.
const (
	EnvLibvirtSocket     = "CRUCIBLE_LIBVIRT_SOCKET"
	EnvImagesType        = "CRUCIBLE_IMAGES_TYPE"
	EnvImagesVolumeGroup = "CRUCIBLE_IMAGES_VOLUME_GROUP"
	EnvImagesRBDPool     = "CRUCIBLE_IMAGES_RBD_POOL"
	EnvImagesRBDCephConf = "CRUCIBLE_IMAGES_RBD_CEPH_CONF"
	EnvRBDUser           = "CRUCIBLE_RBD_USER"
	EnvVolumeClear       = "CRUCIBLE_VOLUME_CLEAR"
	EnvVolumeClearSize   = "CRUCIBLE_VOLUME_CLEAR_SIZE"
	EnvRootHelper        = "CRUCIBLE_ROOT_HELPER"
	EnvExecTimeout       = "CRUCIBLE_EXEC_TIMEOUT"
	EnvRetryDelay        = "CRUCIBLE_RETRY_DELAY"
)

var envKeys = []string{
	EnvLibvirtSocket,
	EnvImagesType,
	EnvImagesVolumeGroup,
	EnvImagesRBDPool,
	EnvImagesRBDCephConf,
	EnvRBDUser,
	EnvVolumeClear,
	EnvVolumeClearSize,
	EnvRootHelper,
	EnvExecTimeout,
	EnvRetryDelay,
}

// ApplyEnv overrides fields from a map of CRUCIBLE_* keys. Keys that are
// absent leave the field unchanged.
func (c *Config) ApplyEnv(env map[string]string) error {
	strs := map[string]*string{
		EnvLibvirtSocket:     &c.LibvirtSocket,
		EnvImagesType:        &c.Libvirt.ImagesType,
		EnvImagesVolumeGroup: &c.Libvirt.ImagesVolumeGroup,
		EnvImagesRBDPool:     &c.Libvirt.ImagesRBDPool,
		EnvImagesRBDCephConf: &c.Libvirt.ImagesRBDCephConf,
		EnvRBDUser:           &c.Libvirt.RBDUser,
		EnvVolumeClear:       &c.Libvirt.VolumeClear,
		EnvRootHelper:        &c.Exec.RootHelper,
	}
	for key, field := range strs {
		if value, ok := env[key]; ok {
			*field = value
		}
	}

	if value, ok := env[EnvVolumeClearSize]; ok {
		size, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvVolumeClearSize, value, err)
		}
		c.Libvirt.VolumeClearSize = size
	}

	durations := map[string]*time.Duration{
		EnvExecTimeout: &c.Exec.Timeout,
		EnvRetryDelay:  &c.Exec.RetryDelay,
	}
	for key, field := range durations {
		value, ok := env[key]
		if !ok {
			continue
		}
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", key, value, err)
		}
		*field = d
	}

	return nil
}
