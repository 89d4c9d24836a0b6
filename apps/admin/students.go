package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/presencehq/presence/core"
	"github.com/presencehq/presence/core/student"
)

func (cli *commandLine) runListStudents(args []string) error {
	cmd := newFlagSet("students")
	courseID := cmd.String("course", "", "The course id.")
	roomID := cmd.String("room", "", "The classroom id.")
	page := cmd.Int("page", 0, "The page to list.")
	perPage := cmd.Int("perpage", 0, "How many students per page.")
	if err := cmd.Parse(args); err != nil {
		return err
	}
	if *courseID == "" || *roomID == "" {
		cmd.Usage()
		return errHelp
	}

	students, err := cli.studentSvc.Filter(context.Background(), *courseID, *roomID, core.PageFilter{Page: *page, PerPage: *perPage})
	if err != nil {
		return err
	}
	for _, st := range students {
		fmt.Fprintf(cli.out, "%s  %s  RA %s  %s  (%d reference images)\n", st.ID, st.Name, st.RA, st.Email, len(st.EmbeddingImages))
	}
	return nil
}

func (cli *commandLine) runAddStudent(args []string) error {
	cmd := newFlagSet("addstudent")
	courseID := cmd.String("course", "", "The course id.")
	roomID := cmd.String("room", "", "The classroom id.")
	name := cmd.String("name", "", "The student's full name.")
	ra := cmd.String("ra", "", "The student's registration number.")
	email := cmd.String("email", "", "The student's email (optional).")
	if err := cmd.Parse(args); err != nil {
		return err
	}
	if *courseID == "" || *roomID == "" {
		cmd.Usage()
		return errHelp
	}

	st, err := cli.studentSvc.Create(context.Background(), *courseID, *roomID, student.NewStudent{
		Name:  *name,
		RA:    *ra,
		Email: *email,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Created student %s\n", st.ID)
	return nil
}

// runImportStudents batch-creates students from a JSON file of
// [{"name": ..., "ra": ..., "email": ...}] records. When -photos points at a
// directory, every file named RA.jpg inside it rides along as that student's
// face reference image.
func (cli *commandLine) runImportStudents(args []string) error {
	cmd := newFlagSet("importstudents")
	courseID := cmd.String("course", "", "The course id.")
	roomID := cmd.String("room", "", "The classroom id.")
	file := cmd.String("file", "", "JSON file with the student records.")
	photosDir := cmd.String("photos", "", "Directory of RA.jpg reference photos (optional).")
	if err := cmd.Parse(args); err != nil {
		return err
	}
	if *courseID == "" || *roomID == "" || *file == "" {
		cmd.Usage()
		return errHelp
	}

	raw, err := os.ReadFile(*file)
	if err != nil {
		return errors.Wrap(err, "reading student file")
	}
	var batch []student.NewStudent
	if err := json.Unmarshal(raw, &batch); err != nil {
		return errors.Wrap(err, "parsing student file")
	}

	var photos []student.Photo
	if *photosDir != "" {
		for _, ns := range batch {
			name := ns.RA + ".jpg"
			data, err := os.ReadFile(filepath.Join(*photosDir, name))
			if err != nil {
				if os.IsNotExist(err) {
					continue
				}
				return errors.Wrapf(err, "reading photo %s", name)
			}
			photos = append(photos, student.Photo{Name: name, Data: data})
		}
	}

	students, err := cli.studentSvc.CreateBatch(context.Background(), *courseID, *roomID, batch, photos)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Created %d students\n", len(students))
	return nil
}

func (cli *commandLine) runDeleteStudent(args []string) error {
	cmd := newFlagSet("deletestudent")
	courseID := cmd.String("course", "", "The course id.")
	roomID := cmd.String("room", "", "The classroom id.")
	id := cmd.String("id", "", "The student id.")
	if err := cmd.Parse(args); err != nil {
		return err
	}
	if *courseID == "" || *roomID == "" || *id == "" {
		cmd.Usage()
		return errHelp
	}
	return cli.studentSvc.Delete(context.Background(), *courseID, *roomID, *id)
}

func (cli *commandLine) runAddEmbedding(args []string) error {
	cmd := newFlagSet("addembedding")
	courseID := cmd.String("course", "", "The course id.")
	roomID := cmd.String("room", "", "The classroom id.")
	id := cmd.String("id", "", "The student id.")
	photoPath := cmd.String("photo", "", "JPEG file to add as a face reference image.")
	if err := cmd.Parse(args); err != nil {
		return err
	}
	if *courseID == "" || *roomID == "" || *id == "" || *photoPath == "" {
		cmd.Usage()
		return errHelp
	}

	data, err := os.ReadFile(*photoPath)
	if err != nil {
		return errors.Wrap(err, "reading photo")
	}
	st, err := cli.studentSvc.AddEmbedding(context.Background(), *courseID, *roomID, *id, student.Photo{
		Name: filepath.Base(*photoPath),
		Data: data,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Student %s now has %d reference images\n", st.ID, len(st.EmbeddingImages))
	return nil
}

func (cli *commandLine) runDeleteEmbedding(args []string) error {
	cmd := newFlagSet("delembedding")
	courseID := cmd.String("course", "", "The course id.")
	roomID := cmd.String("room", "", "The classroom id.")
	id := cmd.String("id", "", "The student id.")
	imageID := cmd.String("image", "", "The reference image id.")
	if err := cmd.Parse(args); err != nil {
		return err
	}
	if *courseID == "" || *roomID == "" || *id == "" || *imageID == "" {
		cmd.Usage()
		return errHelp
	}

	st, err := cli.studentSvc.DeleteEmbedding(context.Background(), *courseID, *roomID, *id, *imageID)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Student %s now has %d reference images\n", st.ID, len(st.EmbeddingImages))
	return nil
}
