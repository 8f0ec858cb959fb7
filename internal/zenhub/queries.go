package zenhub

// GraphQL documents for the ZenHub public API.

const queryWorkspaces = `
query RecentlyViewedWorkspaces($after: String) {
  recentlyViewedWorkspaces(first: 50, after: $after) {
    pageInfo {
      hasNextPage
      endCursor
    }
    nodes {
      id
      name
      pipelines {
        id
        name
      }
    }
  }
}`

// queryIssues and queryPulls share the same node shape, except the
// issue search omits connections. A displayType of "all" still leaves
// out linked pull requests, hence the second search over "prs".
const queryIssues = `
query Issues($pipelineId: ID!, $workspaceId: ID!, $after: String) {
  searchIssuesByPipeline(pipelineId: $pipelineId, filters: {displayType: all}, after: $after) {
    pageInfo {
      hasNextPage
      endCursor
    }
    nodes {
      id
      title
      number
      pullRequest
      pipelineIssue(workspaceId: $workspaceId) {
        priority {
          name
        }
      }
      repository {
        name
        owner {
          login
        }
      }
      estimate {
        value
      }
      sprints(first: 10) {
        nodes {
          name
        }
      }
    }
  }
}`

const queryPulls = `
query PullRequests($pipelineId: ID!, $workspaceId: ID!, $after: String) {
  searchIssuesByPipeline(pipelineId: $pipelineId, filters: {displayType: prs}, after: $after) {
    pageInfo {
      hasNextPage
      endCursor
    }
    nodes {
      id
      title
      number
      pullRequest
      pipelineIssue(workspaceId: $workspaceId) {
        priority {
          name
        }
      }
      repository {
        name
        owner {
          login
        }
      }
      estimate {
        value
      }
      sprints(first: 10) {
        nodes {
          name
        }
      }
      connections(first: 20) {
        nodes {
          id
          title
          number
          repository {
            name
            owner {
              login
            }
          }
        }
      }
    }
  }
}`

const queryEpics = `
query Epics($workspaceId: ID!) {
  workspace(id: $workspaceId) {
    id
    epics(first: 100) {
      nodes {
        id
        issue {
          id
          title
          number
          htmlUrl
        }
      }
    }
  }
}`

const queryEpicIssues = `
query EpicIssues($epicId: ID!) {
  node(id: $epicId) {
    ... on Epic {
      childIssues {
        nodes {
          id
          title
          number
          htmlUrl
        }
      }
    }
  }
}`

const queryDependencies = `
query Dependencies($workspaceId: ID!) {
  workspace(id: $workspaceId) {
    issueDependencies(first: 50) {
      nodes {
        blockedIssue {
          id
          number
          htmlUrl
        }
        blockingIssue {
          id
          title
          number
          htmlUrl
        }
      }
    }
  }
}`
