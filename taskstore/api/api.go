package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
	"github.com/taskdeck/taskdeck/auth"
	"github.com/taskdeck/taskdeck/internal/logutil"
	"github.com/taskdeck/taskdeck/taskstore"
)

// AsHandler exposes the ownership-scoped task operations. The returned
// handler assumes the authentication gate already ran: every request
// must carry a principal in its context.
func AsHandler(ctx context.Context, store *taskstore.Store) http.Handler {
	router := httprouter.New()
	router.HandlerFunc("GET", "/tasks", listTasks(store))
	router.HandlerFunc("POST", "/tasks", createTask(store))
	router.Handle("GET", "/tasks/:id", getTask(store))
	router.Handle("PUT", "/tasks/:id", updateTask(store))
	router.Handle("DELETE", "/tasks/:id", deleteTask(store))
	return router
}

func listTasks(store *taskstore.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := auth.PrincipalFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		tasks, err := store.Tasks(r.Context(), principal, taskstore.Status(r.URL.Query().Get("status")))
		if err != nil {
			writeStoreError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, tasks)
	}
}

func createTask(store *taskstore.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := auth.PrincipalFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		var input taskstore.TaskInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		task, err := store.CreateTask(r.Context(), principal, input)
		if err != nil {
			writeStoreError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, task)
	}
}

func getTask(store *taskstore.Store) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
		principal, ok := auth.PrincipalFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		id, err := taskID(params)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		task, err := store.Task(r.Context(), principal, id)
		if err != nil {
			writeStoreError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, task)
	}
}

func updateTask(store *taskstore.Store) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
		principal, ok := auth.PrincipalFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		id, err := taskID(params)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		var input taskstore.TaskInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		task, err := store.UpdateTask(r.Context(), principal, id, input)
		if err != nil {
			writeStoreError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, task)
	}
}

func deleteTask(store *taskstore.Store) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
		principal, ok := auth.PrincipalFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		id, err := taskID(params)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err := store.DeleteTask(r.Context(), principal, id); err != nil {
			writeStoreError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "Task deleted"})
	}
}

func taskID(params httprouter.Params) (int64, error) {
	id, err := strconv.ParseInt(params.ByName("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid task id")
	}
	return id, nil
}

func writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		notFound  taskstore.TaskNotFound
		duplicate taskstore.DuplicateTaskID
		invalid   taskstore.InvalidTask
	)
	switch {
	case errors.As(err, &notFound):
		writeError(w, http.StatusNotFound, notFound.Error())
	case errors.As(err, &duplicate):
		writeError(w, http.StatusBadRequest, duplicate.Error())
	case errors.As(err, &invalid):
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":  "invalid task",
			"fields": invalid.Fields,
		})
	default:
		log := logutil.GetOrDefault(r.Context())
		log.Error().Err(err).Msg("Unexpected task store failure")
		writeError(w, http.StatusInternalServerError, "task store is mis-behaving")
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	fmt.Fprintf(w, `{"error":%q}`, msg)
}
