package denylist

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScanCatastrophic(t *testing.T) {
	dangerous := []string{
		"rm -rf /",
		"rm -rf /etc",
		"rm -rf /tmp/build",
		"rm -rf ~/",
		"rm -rf .",
		"DROP DATABASE production",
		"drop database test",
		"TRUNCATE TABLE users",
		":(){ :|:& };:",
		"dd if=/dev/zero of=/dev/sda",
		"mkfs.ext4 /dev/sda1",
		"echo boom > /dev/sda",
	}
	for _, cmd := range dangerous {
		reason, hit := Scan(cmd)
		assert.True(t, hit, "expected denylist hit for %q", cmd)
		assert.NotEmpty(t, reason)
	}
}

func TestScanSafe(t *testing.T) {
	safe := []string{
		"rm build/output.js",
		"rm -rf node_modules",
		"git push origin main",
		"npm run test",
		"cat /dev/null",
		"ls -la",
	}
	for _, cmd := range safe {
		_, hit := Scan(cmd)
		assert.False(t, hit, "expected no denylist hit for %q", cmd)
	}
}

func TestScanReturnsFirstMatch(t *testing.T) {
	reason, hit := Scan("rm -rf / && DROP DATABASE x")
	assert.True(t, hit)
	assert.Equal(t, "Recursive delete from root", reason)
}
