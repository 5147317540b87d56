//go:build !fvgriddebug

package field

const boundsCheck = false
