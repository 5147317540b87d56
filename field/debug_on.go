//go:build fvgriddebug

package field

// boundsCheck enables coordinate checks on element access.
const boundsCheck = true
