//go:build unix

package filesystem

import (
	"fmt"
	"os"
	"os/user"
	"strconv"
	"syscall"

	"github.com/textyre/bootstrap/pkg/types"
)

type osOwners struct{}

// NewOSOwners returns an OwnerLookup that resolves uid/gid of real files
// to account names.
func NewOSOwners() types.OwnerLookup {
	return osOwners{}
}

func (osOwners) Owner(path string) (string, string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", "", err
	}
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return "", "", fmt.Errorf("no ownership information for %s", path)
	}

	uid := strconv.FormatUint(uint64(st.Uid), 10)
	gid := strconv.FormatUint(uint64(st.Gid), 10)

	// Unknown ids are reported numerically, which never matches a name.
	owner, group := uid, gid
	if u, err := user.LookupId(uid); err == nil {
		owner = u.Username
	}
	if g, err := user.LookupGroupId(gid); err == nil {
		group = g.Name
	}
	return owner, group, nil
}

// CopyOwner gives dst the uid and gid of src. Matching ids are left alone,
// so only a real ownership change needs privilege.
func (o *osFS) CopyOwner(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return err
	}
	dstInfo, err := os.Stat(dst)
	if err != nil {
		return err
	}
	s, ok := srcInfo.Sys().(*syscall.Stat_t)
	d, ok2 := dstInfo.Sys().(*syscall.Stat_t)
	if !ok || !ok2 {
		return nil
	}
	if s.Uid == d.Uid && s.Gid == d.Gid {
		return nil
	}
	return os.Chown(dst, int(s.Uid), int(s.Gid))
}
