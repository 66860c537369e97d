package mcp

import "github.com/mark3labs/mcp-go/mcp"

// registerTools registers all MCP tools with the server
func (s *Server) registerTools() {
	// Health check
	s.mcpServer.AddTool(
		mcp.NewTool("get_health",
			mcp.WithDescription("Check the health of the console: device cache size, cache age and outstanding write operations"),
		),
		s.handleGetHealth,
	)

	// List devices
	s.mcpServer.AddTool(
		mcp.NewTool("list_devices",
			mcp.WithDescription("List all BACnet devices in the cache with their display names and addresses"),
		),
		s.handleListDevices,
	)

	// Get device
	s.mcpServer.AddTool(
		mcp.NewTool("get_device",
			mcp.WithDescription("Get one device with its objects and top-level properties"),
			mcp.WithString("device",
				mcp.Required(),
				mcp.Description("Device short id (e.g. device_1001)"),
			),
		),
		s.handleGetDevice,
	)

	// Read property
	s.mcpServer.AddTool(
		mcp.NewTool("read_property",
			mcp.WithDescription("Read one property from the backend and return the merged value with its freshness"),
			mcp.WithString("device",
				mcp.Required(),
				mcp.Description("Device short id"),
			),
			mcp.WithString("object",
				mcp.Description("Object short id (omit for a device-level property)"),
			),
			mcp.WithString("property",
				mcp.Required(),
				mcp.Description("Property name (e.g. presentValue)"),
			),
		),
		s.handleReadProperty,
	)

	// Write property
	s.mcpServer.AddTool(
		mcp.NewTool("write_property",
			mcp.WithDescription("Write a property value and wait for the confirmation protocol to converge. "+
				"Binary outputs take \"active\" or \"inactive\"; analog outputs take a number."),
			mcp.WithString("device",
				mcp.Required(),
				mcp.Description("Device short id"),
			),
			mcp.WithString("object",
				mcp.Description("Object short id (omit for a device-level property)"),
			),
			mcp.WithString("property",
				mcp.Required(),
				mcp.Description("Property name (e.g. presentValue)"),
			),
			mcp.WithString("value",
				mcp.Required(),
				mcp.Description("Value to write"),
			),
			mcp.WithNumber("timeout_seconds",
				mcp.Description("How long to wait for convergence (default 30)"),
			),
		),
		s.handleWriteProperty,
	)

	// Toggle output (convenience)
	s.mcpServer.AddTool(
		mcp.NewTool("toggle_output",
			mcp.WithDescription("Flip a binary output: read its present value and write the opposite state"),
			mcp.WithString("device",
				mcp.Required(),
				mcp.Description("Device short id"),
			),
			mcp.WithString("object",
				mcp.Required(),
				mcp.Description("Binary output or binary value short id (e.g. binaryOutput_3)"),
			),
			mcp.WithNumber("timeout_seconds",
				mcp.Description("How long to wait for convergence (default 30)"),
			),
		),
		s.handleToggleOutput,
	)

	// List operations
	s.mcpServer.AddTool(
		mcp.NewTool("list_operations",
			mcp.WithDescription("List all outstanding write operations with their phase and poll count"),
		),
		s.handleListOperations,
	)
}
