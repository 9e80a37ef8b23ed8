// Package reconcile keeps privileged LightDM files in line with their copies
// in the dotfiles source tree.
//
// Each managed file is checked for content, owner, group and permission
// bits. When everything matches nothing is written. Otherwise the drifted
// files are redeployed through a Writer and every file is checked again
// before the run is reported as compliant.
package reconcile
