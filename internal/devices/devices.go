// Package devices lists removable block devices and mounts them through
// udisks. All device information comes from lsblk's JSON output; nothing
// here touches /sys directly.
package devices

import (
	"context"
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/filewright/filewright/backend/internal/shell"
	"go.uber.org/zap"
)

// Device is one block device or partition as shown in the sidebar.
type Device struct {
	Name       string   `json:"name"`
	Label      string   `json:"label"`
	FSType     string   `json:"fstype"`
	SizeBytes  int64    `json:"size_bytes"`
	Removable  bool     `json:"removable"`
	MountPoint string   `json:"mount_point"`
	Children   []Device `json:"children,omitempty"`
}

// Mounted reports whether the device currently has a mount point.
func (d Device) Mounted() bool { return d.MountPoint != "" }

// Service queries and mounts block devices.
type Service struct {
	run shell.Runner
	log *zap.Logger
}

// NewService builds a devices Service. Runner defaults to the real
// exec-based one.
func NewService(run shell.Runner, log *zap.Logger) *Service {
	if run == nil {
		run = shell.ExecRunner{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{run: run, log: log}
}

// lsblk -J output shape.
type lsblkReport struct {
	BlockDevices []lsblkDevice `json:"blockdevices"`
}

type lsblkDevice struct {
	Name       string        `json:"name"`
	Label      *string       `json:"label"`
	FSType     *string       `json:"fstype"`
	Size       int64         `json:"size"`
	RM         bool          `json:"rm"`
	MountPoint *string       `json:"mountpoint"`
	Children   []lsblkDevice `json:"children"`
}

// List returns all block devices with their partitions nested.
func (s *Service) List(ctx context.Context) ([]Device, error) {
	out, err := s.run.Run(ctx, "lsblk",
		"-J", "-b", "-o", "NAME,LABEL,FSTYPE,SIZE,RM,MOUNTPOINT")
	if err != nil {
		return nil, fmt.Errorf("lsblk: %w", err)
	}

	var report lsblkReport
	if err := sonic.Unmarshal(out, &report); err != nil {
		return nil, fmt.Errorf("parse lsblk output: %w", err)
	}

	devices := make([]Device, 0, len(report.BlockDevices))
	for _, d := range report.BlockDevices {
		devices = append(devices, convert(d))
	}
	return devices, nil
}

// Removable returns only removable devices (USB sticks, SD cards).
func (s *Service) Removable(ctx context.Context) ([]Device, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	var out []Device
	for _, d := range all {
		if d.Removable {
			out = append(out, d)
		}
	}
	return out, nil
}

// Mount mounts a partition via udisksctl and returns the mount point.
func (s *Service) Mount(ctx context.Context, name string) (string, error) {
	dev := devicePath(name)
	out, err := s.run.Run(ctx, "udisksctl", "mount", "-b", dev, "--no-user-interaction")
	if err != nil {
		return "", fmt.Errorf("mount %s: %w", dev, err)
	}

	mountPoint := parseMountOutput(string(out))
	if mountPoint == "" {
		return "", fmt.Errorf("mount %s: cannot parse udisksctl output %q", dev, strings.TrimSpace(string(out)))
	}
	s.log.Info("device mounted", zap.String("device", dev), zap.String("at", mountPoint))
	return mountPoint, nil
}

// Unmount unmounts a partition via udisksctl.
func (s *Service) Unmount(ctx context.Context, name string) error {
	dev := devicePath(name)
	if _, err := s.run.Run(ctx, "udisksctl", "unmount", "-b", dev, "--no-user-interaction"); err != nil {
		return fmt.Errorf("unmount %s: %w", dev, err)
	}
	s.log.Info("device unmounted", zap.String("device", dev))
	return nil
}

func convert(d lsblkDevice) Device {
	out := Device{
		Name:      d.Name,
		Label:     deref(d.Label),
		FSType:    deref(d.FSType),
		SizeBytes: d.Size,
		Removable: d.RM,
	}
	if d.MountPoint != nil {
		out.MountPoint = *d.MountPoint
	}
	for _, c := range d.Children {
		child := convert(c)
		// lsblk reports RM only on the disk; partitions inherit it.
		child.Removable = child.Removable || d.RM
		out.Children = append(out.Children, child)
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func devicePath(name string) string {
	if strings.HasPrefix(name, "/dev/") {
		return name
	}
	return "/dev/" + name
}

// parseMountOutput extracts the mount point from udisksctl's
// "Mounted /dev/sdb1 at /run/media/user/STICK" line.
func parseMountOutput(out string) string {
	_, after, ok := strings.Cut(out, " at ")
	if !ok {
		return ""
	}
	return strings.TrimSuffix(strings.TrimSpace(after), ".")
}
