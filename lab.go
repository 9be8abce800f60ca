/*
 * lab.go, part of gomappings.
 *
 * Copyright 2025 Raul Mera <rmera{at}usachDOTcl>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package mappings

import (
	"os"
	"path/filepath"
	"strings"
)

//DefaultExecutable is the name of the MAPPINGS V executable in the lab directory.
const DefaultExecutable = "map52"

//Lab is a MAPPINGS V working directory, where the executable, its data
//and the input files live.
type Lab struct {
	Dir        string
	Executable string //relative to Dir, unless absolute
}

//DefaultLab returns the lab in $MAPPINGS_LAB or, if that variable is not set,
//in ~/mappings520/lab.
func DefaultLab() *Lab {
	dir := os.Getenv("MAPPINGS_LAB")
	if dir == "" {
		dir = filepath.Join("~", "mappings520", "lab")
	}
	return &Lab{Dir: ExpandHome(dir), Executable: DefaultExecutable}
}

//ExpandHome replaces a leading ~ in path with the home directory of the user.
//The path is returned unchanged if there is no home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

//Command returns the path to the MAPPINGS executable.
func (L *Lab) Command() string {
	exe := L.Executable
	if exe == "" {
		exe = DefaultExecutable
	}
	if filepath.IsAbs(exe) {
		return exe
	}
	return filepath.Join(L.Dir, exe)
}

//InputPath returns the path for the input file of the model called name.
func (L *Lab) InputPath(name string) string {
	return filepath.Join(L.Dir, name+".mv")
}

//Check returns an error if the MAPPINGS executable is not a regular file.
func (L *Lab) Check() error {
	info, err := os.Stat(L.Command())
	if err != nil || !info.Mode().IsRegular() {
		return NewError(ErrNoExecutable, "", "", "Check").WithFile(L.Command())
	}
	return nil
}

//WriteInputFile writes the input for model M into the lab directory,
//in a file called filename or, if filename is empty, in name.mv.
//If id is empty the model's IDString is used. It returns the path to the file.
func WriteInputFile(L *Lab, M *InputModel, filename, id string) (string, error) {
	path := L.InputPath(M.name)
	if filename != "" {
		path = filepath.Join(L.Dir, filename)
	}
	//The input is built in memory first so an unsupported setting doesn't leave a truncated file.
	deck, err := M.Preview(id)
	if err != nil {
		return "", ErrDecorate(err, "WriteInputFile")
	}
	if err := os.WriteFile(path, []byte(deck), 0o644); err != nil {
		return "", NewError(ErrCantInput, M.name, "", "WriteInputFile").WithFile(path).WithCause(err)
	}
	return path, nil
}
