// Clickstream Explore - Warehouse SQL Compiler for Event Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clickstream-explore

package models

import (
	"fmt"

	"github.com/goccy/go-json"
)

// PathNode decides what a path step is. It is either EventNode (the raw event
// name) or PropertyNode (a property value such as the screen name).
type PathNode interface {
	NodeType() PathNodeType
	isPathNode()
}

// EventNode uses event names as step identity.
type EventNode struct{}

func (EventNode) NodeType() PathNodeType { return PathNodeEvent }
func (EventNode) isPathNode()            {}

// PropertyNode uses a page or screen property as step identity.
type PropertyNode struct {
	Property PathNodeType
	Nodes    []string
	Platform string
}

func (n PropertyNode) NodeType() PathNodeType { return n.Property }
func (PropertyNode) isPathNode()              {}

// PathAnalysisParameter configures a path analysis walk.
type PathAnalysisParameter struct {
	SessionType            PathSessionType
	LagSeconds             int64
	Node                   PathNode
	IncludingOtherEvents   bool
	MergeConsecutiveEvents bool
}

// IsSessionScoped reports whether walks reset per session.
func (p *PathAnalysisParameter) IsSessionScoped() bool {
	return p != nil && p.SessionType == PathSessionBySession
}

// PropertyNode returns the node configuration when the walk is node-based.
func (p *PathAnalysisParameter) PropertyNode() (PropertyNode, bool) {
	if p == nil {
		return PropertyNode{}, false
	}
	n, ok := p.Node.(PropertyNode)
	return n, ok
}

// pathAnalysisWire is the flat JSON form of PathAnalysisParameter.
type pathAnalysisWire struct {
	SessionType            PathSessionType `json:"sessionType"`
	NodeType               PathNodeType    `json:"nodeType"`
	LagSeconds             int64           `json:"lagSeconds,omitempty"`
	Nodes                  []string        `json:"nodes,omitempty"`
	Platform               string          `json:"platform,omitempty"`
	IncludingOtherEvents   bool            `json:"includingOtherEvents,omitempty"`
	MergeConsecutiveEvents bool            `json:"mergeConsecutiveEvents,omitempty"`
}

// UnmarshalJSON decodes the flat wire form into the node union.
func (p *PathAnalysisParameter) UnmarshalJSON(data []byte) error {
	var w pathAnalysisWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	*p = PathAnalysisParameter{
		SessionType:            w.SessionType,
		LagSeconds:             w.LagSeconds,
		IncludingOtherEvents:   w.IncludingOtherEvents,
		MergeConsecutiveEvents: w.MergeConsecutiveEvents,
	}

	switch w.NodeType {
	case "", PathNodeEvent:
		p.Node = EventNode{}
	case PathNodePageTitle, PathNodePageURL, PathNodeScreenName, PathNodeScreenID:
		p.Node = PropertyNode{Property: w.NodeType, Nodes: w.Nodes, Platform: w.Platform}
	default:
		return fmt.Errorf("unknown path node type %q", w.NodeType)
	}
	return nil
}

// MarshalJSON encodes the node union back into the flat wire form.
func (p PathAnalysisParameter) MarshalJSON() ([]byte, error) {
	w := pathAnalysisWire{
		SessionType:            p.SessionType,
		NodeType:               PathNodeEvent,
		LagSeconds:             p.LagSeconds,
		IncludingOtherEvents:   p.IncludingOtherEvents,
		MergeConsecutiveEvents: p.MergeConsecutiveEvents,
	}
	if n, ok := p.Node.(PropertyNode); ok {
		w.NodeType = n.Property
		w.Nodes = n.Nodes
		w.Platform = n.Platform
	}
	return json.Marshal(w)
}
