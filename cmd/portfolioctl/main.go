// Command portfolioctl manages portfolio projects through the REST API.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/urfave/cli/v2"
	"portfolio-backend/internal/client"
	"portfolio-backend/internal/logging"
	"portfolio-backend/internal/shell"
)

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func newApp(out io.Writer) *cli.App {
	projectFlags := []cli.Flag{
		&cli.StringFlag{Name: "title"},
		&cli.IntFlag{Name: "year"},
		&cli.StringFlag{Name: "role"},
		&cli.StringFlag{Name: "synopsis"},
		&cli.StringFlag{Name: "video-url"},
		&cli.StringFlag{Name: "thumbnail-url"},
		&cli.PathFlag{Name: "thumbnail", Usage: "image file to upload"},
		&cli.PathFlag{Name: "video", Usage: "video file to upload"},
	}

	return &cli.App{
		Name:      "portfolioctl",
		Usage:     "manage portfolio projects",
		Writer:    out,
		ErrWriter: os.Stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "addr",
				Value:   "http://localhost:5001",
				EnvVars: []string{"PORTFOLIO_ADDR"},
				Usage:   "API base URL",
			},
			&cli.StringFlag{
				Name:    "password",
				EnvVars: []string{"ADMIN_PASSWORD"},
				Usage:   "admin password for mutating commands",
			},
			&cli.DurationFlag{Name: "timeout", Value: 2 * time.Minute},
		},
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "list projects, newest first",
				Action: listProjects,
			},
			{
				Name:   "status",
				Usage:  "report whether the admin password opens a session",
				Action: status,
			},
			{
				Name:   "create",
				Usage:  "create a project",
				Flags:  projectFlags,
				Action: createProject,
			},
			{
				Name:   "update",
				Usage:  "update a project; unset flags keep their stored values",
				Flags:  append([]cli.Flag{&cli.StringFlag{Name: "id", Required: true}}, projectFlags...),
				Action: updateProject,
			},
			{
				Name:   "delete",
				Usage:  "delete a project",
				Flags:  []cli.Flag{&cli.StringFlag{Name: "id", Required: true}},
				Action: deleteProject,
			},
		},
	}
}

func newClient(c *cli.Context) (*client.Client, error) {
	return client.New(client.Options{BaseURL: c.String("addr"), Timeout: c.Duration("timeout")})
}

// unlockedPanel logs in and returns the admin panel.
func unlockedPanel(c *cli.Context) (*shell.AdminPanel, *client.Client, error) {
	api, err := newClient(c)
	if err != nil {
		return nil, nil, err
	}
	password := c.String("password")
	if password == "" {
		return nil, nil, errors.New("--password or ADMIN_PASSWORD is required")
	}
	sh := shell.New(api, logging.Discard())
	panel := sh.Panel()
	if !panel.Login(c.Context, password) {
		return nil, nil, errors.New(panel.LoginError)
	}
	return panel, api, nil
}

func listProjects(c *cli.Context) error {
	api, err := newClient(c)
	if err != nil {
		return err
	}
	projects, err := api.ListProjects(c.Context)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tYEAR\tTITLE\tROLE")
	for _, p := range projects {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", p.ID, p.Year, p.Title, p.Role)
	}
	return tw.Flush()
}

func status(c *cli.Context) error {
	api, err := newClient(c)
	if err != nil {
		return err
	}
	if pw := c.String("password"); pw != "" {
		if err := api.Login(c.Context, pw); err != nil && !client.IsStatus(err, http.StatusUnauthorized) {
			return err
		}
	}
	loggedIn, err := api.Status(c.Context)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "logged in: %t\n", loggedIn)
	if loggedIn {
		return api.Logout(context.WithoutCancel(c.Context))
	}
	return nil
}

func createProject(c *cli.Context) error {
	panel, _, err := unlockedPanel(c)
	if err != nil {
		return err
	}
	defer panel.Logout(context.WithoutCancel(c.Context))

	panel.NewProject()
	closeFiles, err := applyFlags(c, &panel.Form)
	defer closeFiles()
	if err != nil {
		return err
	}
	if err := panel.Submit(c.Context); err != nil {
		return errors.New(panel.Notice)
	}
	fmt.Fprintln(c.App.Writer, "created")
	return nil
}

func updateProject(c *cli.Context) error {
	panel, api, err := unlockedPanel(c)
	if err != nil {
		return err
	}
	defer panel.Logout(context.WithoutCancel(c.Context))

	existing, err := api.GetProject(c.Context, c.String("id"))
	if err != nil {
		return err
	}
	panel.Edit(*existing)
	closeFiles, err := applyFlags(c, &panel.Form)
	defer closeFiles()
	if err != nil {
		return err
	}
	if err := panel.Submit(c.Context); err != nil {
		return errors.New(panel.Notice)
	}
	fmt.Fprintln(c.App.Writer, "updated", existing.ID)
	return nil
}

func deleteProject(c *cli.Context) error {
	panel, _, err := unlockedPanel(c)
	if err != nil {
		return err
	}
	defer panel.Logout(context.WithoutCancel(c.Context))

	id := c.String("id")
	if err := panel.Delete(c.Context, id); err != nil {
		return errors.New(panel.Notice)
	}
	fmt.Fprintln(c.App.Writer, "deleted", id)
	return nil
}

// applyFlags copies explicitly set flags into the form and opens any files.
func applyFlags(c *cli.Context, f *shell.Form) (func(), error) {
	var opened []*os.File
	closeAll := func() {
		for _, fh := range opened {
			fh.Close()
		}
	}

	strs := map[string]*string{
		"title":         &f.Title,
		"role":          &f.Role,
		"synopsis":      &f.Synopsis,
		"video-url":     &f.VideoURL,
		"thumbnail-url": &f.ThumbnailURL,
	}
	for name, dst := range strs {
		if c.IsSet(name) {
			*dst = c.String(name)
		}
	}
	if c.IsSet("year") {
		f.Year = c.Int("year")
	}

	for name, dst := range map[string]**client.File{"thumbnail": &f.Thumbnail, "video": &f.Video} {
		path := c.Path(name)
		if path == "" {
			continue
		}
		mt, err := mimetype.DetectFile(path)
		if err != nil {
			return closeAll, fmt.Errorf("%s: %w", name, err)
		}
		fh, err := os.Open(path)
		if err != nil {
			return closeAll, err
		}
		opened = append(opened, fh)
		*dst = &client.File{Name: filepath.Base(path), ContentType: mt.String(), Body: fh}
	}
	return closeAll, nil
}
