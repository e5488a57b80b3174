package devices

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	output map[string][]byte
	err    error
	calls  [][]string
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	call := append([]string{name}, args...)
	f.calls = append(f.calls, call)
	if f.err != nil {
		return nil, f.err
	}
	return f.output[name], nil
}

const lsblkFixture = `{
  "blockdevices": [
    {"name": "sda", "label": null, "fstype": null, "size": 512110190592, "rm": false,
     "mountpoint": null, "children": [
       {"name": "sda1", "label": "root", "fstype": "ext4", "size": 512000000000,
        "rm": false, "mountpoint": "/"}
     ]},
    {"name": "sdb", "label": null, "fstype": null, "size": 31914983424, "rm": true,
     "mountpoint": null, "children": [
       {"name": "sdb1", "label": "STICK", "fstype": "vfat", "size": 31913934848,
        "rm": false, "mountpoint": null}
     ]}
  ]
}`

func TestList(t *testing.T) {
	run := &fakeRunner{output: map[string][]byte{"lsblk": []byte(lsblkFixture)}}
	s := NewService(run, nil)

	devices, err := s.List(context.Background())
	require.NoError(t, err)
	require.Len(t, devices, 2)

	assert.Equal(t, "sda", devices[0].Name)
	assert.False(t, devices[0].Removable)
	require.Len(t, devices[0].Children, 1)
	assert.Equal(t, "/", devices[0].Children[0].MountPoint)
	assert.True(t, devices[0].Children[0].Mounted())

	stick := devices[1]
	assert.True(t, stick.Removable)
	require.Len(t, stick.Children, 1)
	assert.Equal(t, "STICK", stick.Children[0].Label)
	// Partition inherits the disk's removable flag.
	assert.True(t, stick.Children[0].Removable)
	assert.False(t, stick.Children[0].Mounted())
}

func TestRemovable(t *testing.T) {
	run := &fakeRunner{output: map[string][]byte{"lsblk": []byte(lsblkFixture)}}
	s := NewService(run, nil)

	devices, err := s.Removable(context.Background())
	require.NoError(t, err)
	require.Len(t, devices, 1)
	assert.Equal(t, "sdb", devices[0].Name)
}

func TestListCommandFailure(t *testing.T) {
	run := &fakeRunner{err: fmt.Errorf("lsblk: not found")}
	s := NewService(run, nil)

	_, err := s.List(context.Background())
	assert.Error(t, err)
}

func TestMount(t *testing.T) {
	run := &fakeRunner{output: map[string][]byte{
		"udisksctl": []byte("Mounted /dev/sdb1 at /run/media/user/STICK\n"),
	}}
	s := NewService(run, nil)

	mountPoint, err := s.Mount(context.Background(), "sdb1")
	require.NoError(t, err)
	assert.Equal(t, "/run/media/user/STICK", mountPoint)

	require.Len(t, run.calls, 1)
	assert.Equal(t,
		[]string{"udisksctl", "mount", "-b", "/dev/sdb1", "--no-user-interaction"},
		run.calls[0])
}

func TestMountTrailingPeriod(t *testing.T) {
	// Older udisks versions end the line with a period.
	run := &fakeRunner{output: map[string][]byte{
		"udisksctl": []byte("Mounted /dev/sdb1 at /run/media/user/STICK.\n"),
	}}
	s := NewService(run, nil)

	mountPoint, err := s.Mount(context.Background(), "/dev/sdb1")
	require.NoError(t, err)
	assert.Equal(t, "/run/media/user/STICK", mountPoint)
}

func TestUnmount(t *testing.T) {
	run := &fakeRunner{output: map[string][]byte{"udisksctl": []byte("Unmounted /dev/sdb1.\n")}}
	s := NewService(run, nil)

	require.NoError(t, s.Unmount(context.Background(), "sdb1"))
	require.Len(t, run.calls, 1)
	assert.Equal(t,
		[]string{"udisksctl", "unmount", "-b", "/dev/sdb1", "--no-user-interaction"},
		run.calls[0])
}
