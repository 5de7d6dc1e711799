package main

import (
	"testing"

	"github.com/matsen/citenet/internal/analytics"
	"github.com/matsen/citenet/internal/community"
)

func TestCommunityViews(t *testing.T) {
	report := &analytics.Report{
		Communities: []community.Community{
			{ID: 0, Size: 2, Members: []string{"a", "b"}},
			{ID: 1, Size: 1, Members: []string{"c"}},
		},
		Leaders: []community.CommunityLeaders{
			{CommunityID: 0, Leaders: []community.Leader{{ID: "a"}}},
		},
		Dynamics: []community.Dynamics{
			{CommunityID: 1, Growth: community.GrowthEmerging},
			{CommunityID: 0, Growth: community.GrowthStable},
		},
	}

	views := communityViews(report)
	if len(views) != 2 {
		t.Fatalf("got %d views, want 2", len(views))
	}
	if len(views[0].Leaders) != 1 || views[0].Leaders[0].ID != "a" {
		t.Errorf("community 0 leaders = %+v", views[0].Leaders)
	}
	if views[1].Leaders == nil || len(views[1].Leaders) != 0 {
		t.Errorf("community 1 leaders = %#v, want empty non-nil", views[1].Leaders)
	}
	if views[0].Dynamics.Growth != community.GrowthStable || views[1].Dynamics.Growth != community.GrowthEmerging {
		t.Errorf("dynamics matched by id incorrectly: %+v, %+v", views[0].Dynamics, views[1].Dynamics)
	}
}
