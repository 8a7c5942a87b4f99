package domain

import (
	"maps"
	"slices"
	"time"
)

// PictureLarge is the picture size returned by Cloudcast.Picture.
const PictureLarge = "large"

// CloudcastInfo holds the values a Cloudcast is built from.
type CloudcastInfo struct {
	Key         string
	Name        string
	Sections    []Section
	Tags        []string
	Description string
	User        User
	Created     time.Time
	Pictures    map[string]string
}

// Cloudcast is a published mix. It is immutable: accessors return copies of
// the slices and maps it owns.
type Cloudcast struct {
	key         string
	name        string
	sections    []Section
	tags        []string
	description string
	user        User
	created     time.Time
	pictures    map[string]string
	complete    bool
}

// NewCloudcast builds a fully populated cloudcast.
func NewCloudcast(info CloudcastInfo) *Cloudcast {
	cc := newCloudcast(info)
	cc.complete = true
	return cc
}

// NewPartialCloudcast builds a cloudcast from a listing entry, which lacks
// the tracklist and description.
func NewPartialCloudcast(info CloudcastInfo) *Cloudcast {
	return newCloudcast(info)
}

func newCloudcast(info CloudcastInfo) *Cloudcast {
	return &Cloudcast{
		key:         info.Key,
		name:        info.Name,
		sections:    slices.Clone(info.Sections),
		tags:        slices.Clone(info.Tags),
		description: info.Description,
		user:        info.User,
		created:     info.Created,
		pictures:    maps.Clone(info.Pictures),
	}
}

func (c *Cloudcast) Key() string  { return c.key }
func (c *Cloudcast) Name() string { return c.name }
func (c *Cloudcast) User() User   { return c.user }

// Created is the publication time, zero when unknown.
func (c *Cloudcast) Created() time.Time { return c.created }

// Sections returns the tracklist ordered by start time. It is empty for an
// incomplete cloudcast taken from a listing; load it with Client.Expand.
func (c *Cloudcast) Sections() []Section { return slices.Clone(c.sections) }

// Tags returns the tag labels in their original order.
func (c *Cloudcast) Tags() []string { return slices.Clone(c.tags) }

// Description is empty for an incomplete cloudcast; see Sections.
func (c *Cloudcast) Description() string { return c.description }

// Pictures maps picture sizes ("thumbnail", "large", ...) to URLs.
func (c *Cloudcast) Pictures() map[string]string { return maps.Clone(c.pictures) }

// Picture returns the large picture URL, or "" if the cloudcast has none.
func (c *Cloudcast) Picture() string { return c.pictures[PictureLarge] }

// Complete reports whether the tracklist and description were loaded.
// Cloudcasts taken from a user listing are not complete.
func (c *Cloudcast) Complete() bool { return c.complete }

// Info returns the values the cloudcast was built from.
func (c *Cloudcast) Info() CloudcastInfo {
	return CloudcastInfo{
		Key:         c.key,
		Name:        c.name,
		Sections:    c.Sections(),
		Tags:        c.Tags(),
		Description: c.description,
		User:        c.user,
		Created:     c.created,
		Pictures:    c.Pictures(),
	}
}
