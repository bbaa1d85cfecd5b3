package workgraphManager

import (
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/workgraphui/manager/database"
	"github.com/workgraphui/manager/handler"
	"github.com/workgraphui/manager/helper"
	"github.com/workgraphui/manager/model"
	"github.com/workgraphui/manager/upload"

	"github.com/labstack/echo/v4"
)

// ManagerServer initializes the manager handler, sets up routes, and starts the Echo server.
func ManagerServer(settings *helper.Settings) {
	logger, loggingToSentry := helper.NewLogger(settings.VerboseLogging, settings.Config.SentryDSN)
	if loggingToSentry {
		logger.Info("Error logs are forwarded to Sentry")
	}

	mh, err := InitManagerHandler(settings, logger)
	if err != nil {
		log.Fatalf("Failed to initialize manager handler: %v", err)
	}

	e := echo.New()
	SetupRoutes(e, mh, settings.Config.StaticDir)

	err = e.Start(":" + settings.Config.Port)
	if err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// InitManagerHandler creates and configures the manager handler: the file
// repository, the node and log database handlers, and an optional node
// seed loaded from a JSON file.
func InitManagerHandler(settings *helper.Settings, logger *slog.Logger) (*handler.ManagerHandler, error) {
	// Create filesystem from environment variables
	filesystem, err := upload.CreateFilesystemFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to create filesystem: %w", err)
	}

	db, err := helper.NewDatabase("node", settings.Config.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	nodeDB, err := database.NewNodeDBHandler(db, false)
	if err != nil {
		return nil, fmt.Errorf("failed to create node database handler: %w", err)
	}
	logDB, err := database.NewLogDBHandler(db, false)
	if err != nil {
		return nil, fmt.Errorf("failed to create log database handler: %w", err)
	}

	// Load nodes from JSON file if path is provided
	if settings.Config.NodeJSON != "" {
		err := loadNodesFromJSON(settings.Config.NodeJSON, nodeDB, logger)
		if err != nil {
			log.Printf("Failed to load nodes from JSON file: %v", err)
		}
	}

	apiBase := "http://localhost:" + settings.Config.Port + "/api"
	mh := handler.NewManagerHandler(nodeDB, logDB, filesystem, logger, apiBase)

	return mh, nil
}

func loadNodesFromJSON(filePath string, nodeDB database.NodeDBHandlerFunctions, logger *slog.Logger) error {
	// #nosec G304 -- Accepting file path from env variable is intentional and controlled.
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}

	var seed struct {
		Nodes []*model.Node `json:"nodes"`
		Links []model.Link  `json:"links"`
	}
	err = json.Unmarshal(data, &seed)
	if err != nil {
		return err
	}

	// Seed pks map to freshly assigned ones so links stay intact.
	pkMap := map[int]int{}
	for _, node := range seed.Nodes {
		insertedNode, err := nodeDB.InsertNode(node)
		if err != nil {
			logger.Warn("Failed to insert node", "type", node.NodeType, "label", node.Label, "error", err)
			continue
		}
		pkMap[node.ID] = insertedNode.ID
		logger.Info("Node loaded from JSON", "pk", insertedNode.ID, "type", insertedNode.NodeType)
	}

	for _, link := range seed.Links {
		fromNode, fromOk := pkMap[link.FromNode]
		toNode, toOk := pkMap[link.ToNode]
		if !fromOk || !toOk {
			logger.Warn("Skipping link with unknown node", "from", link.FromNode, "to", link.ToNode)
			continue
		}
		if err := nodeDB.InsertLink(fromNode, toNode, link.Label); err != nil {
			logger.Warn("Failed to insert link", "from", fromNode, "to", toNode, "error", err)
		}
	}

	logger.Info("Finished loading nodes from JSON", "file", filePath, "total", len(seed.Nodes))
	return nil
}
