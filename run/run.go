/*
 * run.go, part of gomappings.
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

package run

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	mappings "github.com/rmera/gomappings"
)

//waitDelay is how long Run waits for map52's output after the process is killed.
const waitDelay = 5 * time.Second

//Result contains the outcome of running one model.
type Result struct {
	Name     string
	ID       string //The ID string given to MAPPINGS, if known
	Input    string
	Log      string //empty if no log was kept
	Started  time.Time
	Elapsed  time.Duration
	ExitCode int
	Err      error
}

//OK returns true if the run finished without errors.
func (R *Result) OK() bool {
	return R != nil && R.Err == nil
}

func (R *Result) String() string {
	if R.OK() {
		return fmt.Sprintf("%s: ok in %s", R.Name, FormatElapsed(R.Elapsed))
	}
	return fmt.Sprintf("%s: failed after %s (%v)", R.Name, FormatElapsed(R.Elapsed), R.Err)
}

//FormatElapsed returns d as minutes and seconds, as in "2m 3.25s".
func FormatElapsed(d time.Duration) string {
	minutes := int(d / time.Minute)
	seconds := (d - time.Duration(minutes)*time.Minute).Seconds()
	return fmt.Sprintf("%dm %.2fs", minutes, seconds)
}

//Handle runs MAPPINGS V models in a lab directory.
type Handle struct {
	lab       *mappings.Lab
	inputname string
	idstring  string
	keepLogs  bool
	logger    *zap.Logger
}

//NewHandle returns a handle for the given lab. If lab is nil, the default lab is used.
//A nil logger means no logging.
func NewHandle(lab *mappings.Lab, logger *zap.Logger) *Handle {
	run := new(Handle)
	run.SetDefaults()
	if lab != nil {
		run.SetLab(lab)
	}
	if logger != nil {
		run.logger = logger
	}
	return run
}

//SetDefaults sets the default lab (see mappings.DefaultLab), turns on the logs
//and turns off the logger.
func (H *Handle) SetDefaults() {
	H.lab = mappings.DefaultLab()
	H.inputname = "gomappings"
	H.idstring = ""
	H.keepLogs = true
	H.logger = zap.NewNop()
}

//SetName sets the name of the job, used for the input and log files.
func (H *Handle) SetName(name string) {
	H.inputname = name
}

func (H *Handle) Name() string {
	return H.inputname
}

//SetLab sets the lab directory. The handle keeps its own copy.
func (H *Handle) SetLab(L *mappings.Lab) {
	l := *L
	H.lab = &l
}

func (H *Handle) Lab() *mappings.Lab {
	l := *H.lab
	return &l
}

//SetCommand sets the MAPPINGS executable, relative to the lab directory unless absolute.
func (H *Handle) SetCommand(exe string) {
	H.lab.Executable = exe
}

func (H *Handle) Command() string {
	return H.lab.Command()
}

//KeepLogs sets whether the output of map52 is kept, zstd-compressed, in the lab directory.
func (H *Handle) KeepLogs(keep bool) {
	H.keepLogs = keep
}

func (H *Handle) SetLogger(logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	H.logger = logger
}

//LogPath returns the file where the output of the current job is kept.
func (H *Handle) LogPath() string {
	return filepath.Join(H.lab.Dir, H.inputname+".log.zst")
}

//clone returns a copy of H that can be used concurrently with it.
func (H *Handle) clone() *Handle {
	h := *H
	h.lab = H.Lab()
	return &h
}

//BuildInput writes the input for M in the lab directory and sets the job name to the name of M.
//If id is empty, M.IDString() is used as ID string. It returns the path to the input file.
func (H *Handle) BuildInput(M *mappings.InputModel, id string) (string, error) {
	if id == "" {
		id = M.IDString()
	}
	H.SetName(M.Name())
	H.idstring = id
	path, err := mappings.WriteInputFile(H.lab, M, "", id)
	if err != nil {
		return "", mappings.ErrDecorate(err, "BuildInput")
	}
	H.logger.Debug("Input file written", zap.String("model", M.Name()), zap.String("path", path))
	return path, nil
}

//Run runs MAPPINGS on the input file given, or, if input is empty, on name.mv in the lab directory.
//The input is fed to the standard input of map52, which runs in the lab directory. Cancelling ctx kills
//the program. A Result is returned whenever the program was started, even if it failed.
func (H *Handle) Run(ctx context.Context, input string) (*Result, error) {
	if err := H.lab.Check(); err != nil {
		return nil, mappings.ErrDecorate(err, "Run")
	}
	if input == "" {
		input = H.lab.InputPath(H.inputname)
	}
	if info, err := os.Stat(input); err != nil || !info.Mode().IsRegular() {
		return nil, mappings.NewError(mappings.ErrNoInput, H.inputname, "", "Run").WithFile(input)
	}
	in, err := os.Open(input)
	if err != nil {
		return nil, mappings.NewError(mappings.ErrNoInput, H.inputname, "", "Run").WithFile(input).WithCause(err)
	}
	defer in.Close()
	res := &Result{Name: H.inputname, ID: H.idstring, Input: input, ExitCode: -1}
	var out io.Writer = io.Discard
	var logw *logWriter
	if H.keepLogs {
		res.Log = H.LogPath()
		logw, err = newLogWriter(res.Log)
		if err != nil {
			return nil, mappings.NewError(mappings.ErrRunFailed, H.inputname, "unable to create log", "Run").WithFile(res.Log).WithCause(err)
		}
		out = logw
	}
	command := exec.CommandContext(ctx, H.lab.Command())
	command.Dir = H.lab.Dir
	command.Stdin = in
	command.Stdout = out
	command.Stderr = out
	command.WaitDelay = waitDelay
	H.logger.Info("Running MAPPINGS model", zap.String("model", H.inputname), zap.String("input", input))
	res.Started = time.Now()
	err = command.Run()
	res.Elapsed = time.Since(res.Started)
	if command.ProcessState != nil {
		res.ExitCode = command.ProcessState.ExitCode()
	}
	if logw != nil {
		if cerr := logw.Close(); cerr != nil && err == nil {
			err = errors.Wrap(cerr, "closing log")
		}
	}
	if err != nil {
		if ctx.Err() != nil {
			err = errors.Wrap(ctx.Err(), err.Error())
		}
		res.Err = mappings.NewError(mappings.ErrRunFailed, H.inputname, fmt.Sprintf("exit code %d", res.ExitCode), "Run").WithFile(input).WithCause(err)
		H.logger.Error("MAPPINGS model failed", zap.String("model", H.inputname), zap.Int("exit_code", res.ExitCode), zap.Duration("elapsed", res.Elapsed), zap.Error(err))
		return res, res.Err
	}
	H.logger.Info(fmt.Sprintf("MAPPINGS model '%s' successfully run in %s", H.inputname, FormatElapsed(res.Elapsed)), zap.String("model", H.inputname), zap.Duration("elapsed", res.Elapsed))
	return res, nil
}

//RunModel writes the input for M and runs it. See BuildInput and Run.
func (H *Handle) RunModel(ctx context.Context, M *mappings.InputModel, id string) (*Result, error) {
	input, err := H.BuildInput(M, id)
	if err != nil {
		return nil, mappings.ErrDecorate(err, "RunModel")
	}
	res, err := H.Run(ctx, input)
	return res, mappings.ErrDecorate(err, "RunModel")
}
