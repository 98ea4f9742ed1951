//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

// Builds the collmesh binary into bin/.
func (Build) Binary() error {
	if _, err := executeCmd("go", withArgs("build", "-o", "bin/collmesh", "."), withStream()); err != nil {
		return err
	}
	return nil
}

// Runs go vet and go mod tidy.
func (Build) Check() error {
	if err := goTidy(); err != nil {
		return err
	}
	_, err := executeCmd("go", withArgs("vet", "./..."), withStream())
	return err
}

type Test mg.Namespace

// Runs every package test.
func (Test) Unit() error {
	_, err := executeCmd("go", withArgs("test", "./..."), withStream())
	return err
}

// Runs the tests with the race detector and writes coverage to cover.out.
func (Test) Cover() error {
	_, err := executeCmd("go", withArgs("test", "-race", "-coverprofile=cover.out", "./..."), withStream())
	return err
}
