//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Exports scene to out, e.g. `mage run:export scenes/level.toml:Collide build/level.collmesh`.
func (Run) Export(scene, out string) error {
	mg.Deps(Build.Binary)
	fmt.Println("Run export...")
	if _, err := executeCmd("bin/collmesh", withArgs("export", scene, out), withStream()); err != nil {
		return err
	}
	return nil
}

// Prints the meshes of a collmesh file.
func (Run) Inspect(file string) error {
	mg.Deps(Build.Binary)
	_, err := executeCmd("bin/collmesh", withArgs("inspect", file), withStream())
	return err
}
