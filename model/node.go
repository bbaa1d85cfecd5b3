package model

import (
	"time"

	"github.com/google/uuid"
)

// Node represents one provenance node in the database. Data nodes,
// processes and workgraphs all share this record; the node type string
// decides which entity views a node shows up in.
type Node struct {
	ID            int       `json:"pk"`
	UUID          uuid.UUID `json:"uuid"`
	NodeType      string    `json:"node_type"`
	ProcessLabel  string    `json:"process_label,omitempty"`
	ProcessState  string    `json:"state,omitempty"`
	ProcessStatus string    `json:"status,omitempty"`
	ExitStatus    *int      `json:"exit_status,omitempty"`
	ExitMessage   string    `json:"exit_message,omitempty"`
	Label         string    `json:"label"`
	Description   string    `json:"description"`
	Attributes    DataMap   `json:"attributes,omitempty"`
	Ctime         time.Time `json:"ctime"`
	Mtime         time.Time `json:"mtime"`
}

// Link is a directed provenance edge between two nodes.
type Link struct {
	ID       int    `json:"id"`
	FromNode int    `json:"from_node"`
	ToNode   int    `json:"to_node"`
	Label    string `json:"label"`
}

// Process states a process node can be in.
const (
	ProcessStateCreated  = "created"
	ProcessStateWaiting  = "waiting"
	ProcessStateRunning  = "running"
	ProcessStatePaused   = "paused"
	ProcessStateFinished = "finished"
	ProcessStateExcepted = "excepted"
	ProcessStateKilled   = "killed"
)
